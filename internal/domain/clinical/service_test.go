package clinical

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type mockDiagnosisRepo struct {
	items map[uuid.UUID]*Diagnosis
}

func newMockDiagnosisRepo() *mockDiagnosisRepo {
	return &mockDiagnosisRepo{items: make(map[uuid.UUID]*Diagnosis)}
}

func (m *mockDiagnosisRepo) Create(ctx context.Context, d *Diagnosis) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.items[d.ID] = d
	return nil
}

func (m *mockDiagnosisRepo) GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, errors.New("diagnosis not found")
	}
	return d, nil
}

func (m *mockDiagnosisRepo) Update(ctx context.Context, d *Diagnosis) error {
	m.items[d.ID] = d
	return nil
}

func (m *mockDiagnosisRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockDiagnosisRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	var out []*Diagnosis
	for _, d := range m.items {
		if d.PatientID == patientID {
			out = append(out, d)
		}
	}
	return out, len(out), nil
}

type mockOrderRepo struct {
	items map[uuid.UUID]*MedicationOrder
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{items: make(map[uuid.UUID]*MedicationOrder)}
}

func (m *mockOrderRepo) Create(ctx context.Context, o *MedicationOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.items[o.ID] = o
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*MedicationOrder, error) {
	o, ok := m.items[id]
	if !ok {
		return nil, errors.New("medication order not found")
	}
	return o, nil
}

func (m *mockOrderRepo) Update(ctx context.Context, o *MedicationOrder) error {
	m.items[o.ID] = o
	return nil
}

func (m *mockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockOrderRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicationOrder, int, error) {
	var out []*MedicationOrder
	for _, o := range m.items {
		if o.PatientID == patientID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func newTestService() *Service {
	return NewService(newMockDiagnosisRepo(), newMockOrderRepo())
}

func TestCreateDiagnosis_Defaults(t *testing.T) {
	svc := newTestService()

	d := &Diagnosis{PatientID: uuid.New(), ICD10Code: "I50.9", Text: "Heart failure"}
	if err := svc.CreateDiagnosis(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != "active" {
		t.Errorf("expected default status active, got %s", d.Status)
	}
	if d.DiagnosedAt.IsZero() {
		t.Error("expected diagnosed_at to be defaulted")
	}
}

func TestCreateDiagnosis_Validation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name string
		d    Diagnosis
	}{
		{"missing patient", Diagnosis{ICD10Code: "I50.9"}},
		{"missing code", Diagnosis{PatientID: uuid.New()}},
		{"invalid status", Diagnosis{PatientID: uuid.New(), ICD10Code: "I50.9", Status: "chronic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.d
			if err := svc.CreateDiagnosis(context.Background(), &d); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpdateDiagnosis_StatusTransitions(t *testing.T) {
	svc := newTestService()

	d := &Diagnosis{PatientID: uuid.New(), ICD10Code: "J18.9"}
	if err := svc.CreateDiagnosis(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, status := range []string{"resolved", "ruled-out", "active"} {
		d.Status = status
		if err := svc.UpdateDiagnosis(context.Background(), d); err != nil {
			t.Errorf("status %s: unexpected error: %v", status, err)
		}
	}

	d.Status = "maybe"
	if err := svc.UpdateDiagnosis(context.Background(), d); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestCreateMedicationOrder_Defaults(t *testing.T) {
	svc := newTestService()

	m := &MedicationOrder{PatientID: uuid.New(), Name: "Furosemid", Dose: "40mg", Route: "oral", Schedule: "1-0-0"}
	if err := svc.CreateMedicationOrder(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != "active" {
		t.Errorf("expected default status active, got %s", m.Status)
	}
	if m.StartedAt.IsZero() {
		t.Error("expected started_at to be defaulted")
	}
}

func TestCreateMedicationOrder_Validation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name string
		m    MedicationOrder
	}{
		{"missing patient", MedicationOrder{Name: "Furosemid", Dose: "40mg"}},
		{"missing name", MedicationOrder{PatientID: uuid.New(), Dose: "40mg"}},
		{"missing dose", MedicationOrder{PatientID: uuid.New(), Name: "Furosemid"}},
		{"invalid status", MedicationOrder{PatientID: uuid.New(), Name: "Furosemid", Dose: "40mg", Status: "on-hold"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.m
			if err := svc.CreateMedicationOrder(context.Background(), &m); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
