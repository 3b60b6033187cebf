package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validSexValues = map[string]bool{
	"female": true, "male": true, "other": true, "unknown": true,
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birth_date is required")
	}
	if p.Sex == "" {
		p.Sex = "unknown"
	}
	if !validSexValues[p.Sex] {
		return fmt.Errorf("invalid sex: %s", p.Sex)
	}
	p.Status = StatusAdmitted
	now := time.Now().UTC()
	p.AdmittedAt = &now
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.Sex != "" && !validSexValues[p.Sex] {
		return fmt.Errorf("invalid sex: %s", p.Sex)
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}
