package vitals

import (
	"time"

	"github.com/google/uuid"
)

// Reading is one set of vital-sign measurements for a patient. All measured
// parameters are optional; a home measurement device typically reports only
// a subset.
type Reading struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	RecordedAt      time.Time  `db:"recorded_at" json:"recorded_at"`
	HeartRate       *float64   `db:"heart_rate" json:"heart_rate,omitempty"`
	SpO2            *float64   `db:"spo2" json:"spo2,omitempty"`
	Temperature     *float64   `db:"temperature" json:"temperature,omitempty"`
	RespiratoryRate *float64   `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	SystolicBP      *float64   `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP     *float64   `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	BloodGlucose    *float64   `db:"blood_glucose" json:"blood_glucose,omitempty"`
	RecordedBy      *string    `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// Alarm severity levels. Each threshold band maps to exactly one of these.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alarm lifecycle states.
const (
	AlarmActive       = "active"
	AlarmAcknowledged = "acknowledged"
	AlarmResolved     = "resolved"
)

// Bound identifiers for the violated threshold side.
const (
	BoundMin = "min"
	BoundMax = "max"
)

// Alarm is a persisted threshold violation with its lifecycle state.
type Alarm struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	ReadingID      uuid.UUID  `db:"reading_id" json:"reading_id"`
	Parameter      string     `db:"parameter" json:"parameter"`
	Value          float64    `db:"value" json:"value"`
	Threshold      float64    `db:"threshold" json:"threshold"`
	Bound          string     `db:"bound" json:"bound"`
	Severity       string     `db:"severity" json:"severity"`
	Status         string     `db:"status" json:"status"`
	TriggeredAt    time.Time  `db:"triggered_at" json:"triggered_at"`
	AcknowledgedBy *string    `db:"acknowledged_by" json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// AlarmEvent is the ephemeral fan-out payload for live subscribers. It is
// created by the evaluator and consumed immediately by the broadcaster.
type AlarmEvent struct {
	Type        string    `json:"type"`
	AlarmID     uuid.UUID `json:"alarm_id,omitempty"`
	PatientID   uuid.UUID `json:"patient_id"`
	ReadingID   uuid.UUID `json:"reading_id"`
	Parameter   string    `json:"parameter"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	Bound       string    `json:"bound"`
	Severity    string    `json:"severity"`
	TriggeredAt time.Time `json:"triggered_at"`
}
