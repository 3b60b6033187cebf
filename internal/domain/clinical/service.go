package clinical

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	diagnoses DiagnosisRepository
	orders    MedicationOrderRepository
}

func NewService(diagnoses DiagnosisRepository, orders MedicationOrderRepository) *Service {
	return &Service{diagnoses: diagnoses, orders: orders}
}

// -- Diagnosis --

var validDiagnosisStatuses = map[string]bool{
	"active": true, "resolved": true, "ruled-out": true,
}

func (s *Service) CreateDiagnosis(ctx context.Context, d *Diagnosis) error {
	if d.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if d.ICD10Code == "" {
		return fmt.Errorf("icd10_code is required")
	}
	if d.Status == "" {
		d.Status = "active"
	}
	if !validDiagnosisStatuses[d.Status] {
		return fmt.Errorf("invalid status: %s", d.Status)
	}
	if d.DiagnosedAt.IsZero() {
		d.DiagnosedAt = time.Now().UTC()
	}
	return s.diagnoses.Create(ctx, d)
}

func (s *Service) GetDiagnosis(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return s.diagnoses.GetByID(ctx, id)
}

func (s *Service) UpdateDiagnosis(ctx context.Context, d *Diagnosis) error {
	if d.Status != "" && !validDiagnosisStatuses[d.Status] {
		return fmt.Errorf("invalid status: %s", d.Status)
	}
	return s.diagnoses.Update(ctx, d)
}

func (s *Service) DeleteDiagnosis(ctx context.Context, id uuid.UUID) error {
	return s.diagnoses.Delete(ctx, id)
}

func (s *Service) ListDiagnosesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	return s.diagnoses.ListByPatient(ctx, patientID, limit, offset)
}

// -- Medication Order --

var validOrderStatuses = map[string]bool{
	"active": true, "paused": true, "stopped": true, "completed": true,
}

func (s *Service) CreateMedicationOrder(ctx context.Context, m *MedicationOrder) error {
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Dose == "" {
		return fmt.Errorf("dose is required")
	}
	if m.Status == "" {
		m.Status = "active"
	}
	if !validOrderStatuses[m.Status] {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	if m.StartedAt.IsZero() {
		m.StartedAt = time.Now().UTC()
	}
	return s.orders.Create(ctx, m)
}

func (s *Service) GetMedicationOrder(ctx context.Context, id uuid.UUID) (*MedicationOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) UpdateMedicationOrder(ctx context.Context, m *MedicationOrder) error {
	if m.Status != "" && !validOrderStatuses[m.Status] {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	return s.orders.Update(ctx, m)
}

func (s *Service) DeleteMedicationOrder(ctx context.Context, id uuid.UUID) error {
	return s.orders.Delete(ctx, id)
}

func (s *Service) ListMedicationOrdersByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicationOrder, int, error) {
	return s.orders.ListByPatient(ctx, patientID, limit, offset)
}
