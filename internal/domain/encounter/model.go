package encounter

import (
	"time"

	"github.com/google/uuid"
)

// Encounter is one clinical contact with a patient during the home-hospital
// stay: a home visit, a video call or a phone consultation.
type Encounter struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	Type        string     `db:"type" json:"type"`
	Status      string     `db:"status" json:"status"`
	StartedAt   time.Time  `db:"started_at" json:"started_at"`
	EndedAt     *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	PerformerID *string    `db:"performer_id" json:"performer_id,omitempty"`
	Summary     *string    `db:"summary" json:"summary,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
