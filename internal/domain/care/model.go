package care

import (
	"time"

	"github.com/google/uuid"
)

// Fluid balance entry kinds.
const (
	FluidIntake = "intake"
	FluidOutput = "output"
)

// FluidEntry is a single intake or output measurement in milliliters.
type FluidEntry struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Kind       string    `db:"kind" json:"kind"`
	AmountML   int       `db:"amount_ml" json:"amount_ml"`
	Label      string    `db:"label" json:"label"`
	RecordedBy *string   `db:"recorded_by" json:"recorded_by,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FluidBalance aggregates a patient's intake and output over a window.
type FluidBalance struct {
	PatientID uuid.UUID `json:"patient_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	IntakeML  int       `json:"intake_ml"`
	OutputML  int       `json:"output_ml"`
	BalanceML int       `json:"balance_ml"`
}

// Note is a free-text clinical note attached to a patient.
type Note struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Category  string    `db:"category" json:"category"`
	Text      string    `db:"text" json:"text"`
	AuthorID  *string   `db:"author_id" json:"author_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
