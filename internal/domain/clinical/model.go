package clinical

import (
	"time"

	"github.com/google/uuid"
)

// Diagnosis is an ICD-10 coded condition assigned to a patient.
type Diagnosis struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	ICD10Code   string    `db:"icd10_code" json:"icd10_code"`
	Text        string    `db:"text" json:"text"`
	Status      string    `db:"status" json:"status"`
	DiagnosedBy *string   `db:"diagnosed_by" json:"diagnosed_by,omitempty"`
	DiagnosedAt time.Time `db:"diagnosed_at" json:"diagnosed_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// MedicationOrder is a prescribed medication with its dosing schedule.
type MedicationOrder struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name         string     `db:"name" json:"name"`
	Dose         string     `db:"dose" json:"dose"`
	Route        string     `db:"route" json:"route"`
	Schedule     string     `db:"schedule" json:"schedule"`
	Status       string     `db:"status" json:"status"`
	PrescribedBy *string    `db:"prescribed_by" json:"prescribed_by,omitempty"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	EndedAt      *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
