package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient admission states for the home-hospital stay.
const (
	StatusAdmitted   = "admitted"
	StatusDischarged = "discharged"
)

// Patient holds the demographics and stay status of a home-hospital patient.
type Patient struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	FirstName       string     `db:"first_name" json:"first_name"`
	LastName        string     `db:"last_name" json:"last_name"`
	BirthDate       time.Time  `db:"birth_date" json:"birth_date"`
	Sex             string     `db:"sex" json:"sex"`
	Address         *string    `db:"address" json:"address,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	InsuranceNumber *string    `db:"insurance_number" json:"insurance_number,omitempty"`
	Status          string     `db:"status" json:"status"`
	AdmittedAt      *time.Time `db:"admitted_at" json:"admitted_at,omitempty"`
	DischargedAt    *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
