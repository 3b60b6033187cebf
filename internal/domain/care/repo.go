package care

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FluidRepository interface {
	Create(ctx context.Context, e *FluidEntry) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*FluidEntry, int, error)
	SumByKind(ctx context.Context, patientID uuid.UUID, kind string, from, to time.Time) (int, error)
}

type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error)
}
