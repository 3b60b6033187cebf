package care

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	fluids FluidRepository
	notes  NoteRepository
}

func NewService(fluids FluidRepository, notes NoteRepository) *Service {
	return &Service{fluids: fluids, notes: notes}
}

// -- Fluid balance --

func (s *Service) RecordFluidEntry(ctx context.Context, e *FluidEntry) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if e.Kind != FluidIntake && e.Kind != FluidOutput {
		return fmt.Errorf("kind must be %q or %q", FluidIntake, FluidOutput)
	}
	if e.AmountML <= 0 {
		return fmt.Errorf("amount_ml must be positive")
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	return s.fluids.Create(ctx, e)
}

func (s *Service) ListFluidEntries(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*FluidEntry, int, error) {
	return s.fluids.ListByPatient(ctx, patientID, limit, offset)
}

// FluidBalance sums intake and output over the given window. A zero "to"
// defaults to now, a zero "from" to 24 hours before "to".
func (s *Service) FluidBalance(ctx context.Context, patientID uuid.UUID, from, to time.Time) (*FluidBalance, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-24 * time.Hour)
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("from must be before to")
	}
	intake, err := s.fluids.SumByKind(ctx, patientID, FluidIntake, from, to)
	if err != nil {
		return nil, err
	}
	output, err := s.fluids.SumByKind(ctx, patientID, FluidOutput, from, to)
	if err != nil {
		return nil, err
	}
	return &FluidBalance{
		PatientID: patientID,
		From:      from,
		To:        to,
		IntakeML:  intake,
		OutputML:  output,
		BalanceML: intake - output,
	}, nil
}

// -- Notes --

func (s *Service) CreateNote(ctx context.Context, n *Note) error {
	if n.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if n.Text == "" {
		return fmt.Errorf("text is required")
	}
	if n.Category == "" {
		n.Category = "general"
	}
	return s.notes.Create(ctx, n)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.notes.GetByID(ctx, id)
}

func (s *Service) UpdateNote(ctx context.Context, n *Note) error {
	if n.Text == "" {
		return fmt.Errorf("text is required")
	}
	return s.notes.Update(ctx, n)
}

func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return s.notes.Delete(ctx, id)
}

func (s *Service) ListNotesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	return s.notes.ListByPatient(ctx, patientID, limit, offset)
}
