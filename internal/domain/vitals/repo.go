package vitals

import (
	"context"

	"github.com/google/uuid"
)

type ReadingRepository interface {
	Create(ctx context.Context, r *Reading) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reading, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Reading, int, error)
}

type AlarmRepository interface {
	Create(ctx context.Context, a *Alarm) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alarm, error)
	Update(ctx context.Context, a *Alarm) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Alarm, int, error)
}
