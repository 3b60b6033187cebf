package encounter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	encounters map[uuid.UUID]*Encounter
}

func newMockRepo() *mockRepo {
	return &mockRepo{encounters: make(map[uuid.UUID]*Encounter)}
}

func (m *mockRepo) Create(ctx context.Context, e *Encounter) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	m.encounters[e.ID] = e
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	e, ok := m.encounters[id]
	if !ok {
		return nil, errors.New("encounter not found")
	}
	return e, nil
}

func (m *mockRepo) Update(ctx context.Context, e *Encounter) error {
	m.encounters[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.encounters, id)
	return nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Encounter, int, error) {
	var out []*Encounter
	for _, e := range m.encounters {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func TestCreate_Defaults(t *testing.T) {
	svc := NewService(newMockRepo())

	e := &Encounter{PatientID: uuid.New(), Type: "home-visit"}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != "planned" {
		t.Errorf("expected default status planned, got %s", e.Status)
	}
	if e.StartedAt.IsZero() {
		t.Error("expected started_at to be defaulted")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name string
		enc  Encounter
	}{
		{"missing patient", Encounter{Type: "video"}},
		{"invalid type", Encounter{PatientID: uuid.New(), Type: "carrier-pigeon"}},
		{"invalid status", Encounter{PatientID: uuid.New(), Type: "phone", Status: "done"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tt.enc
			if err := svc.Create(context.Background(), &enc); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreate_AllTypesAccepted(t *testing.T) {
	svc := NewService(newMockRepo())
	for _, typ := range []string{"home-visit", "video", "phone"} {
		e := &Encounter{PatientID: uuid.New(), Type: typ}
		if err := svc.Create(context.Background(), e); err != nil {
			t.Errorf("type %s: unexpected error: %v", typ, err)
		}
	}
}

func TestUpdate_RejectsInvalidStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	e := &Encounter{PatientID: uuid.New(), Type: "video"}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("create: %v", err)
	}

	e.Status = "nope"
	if err := svc.Update(context.Background(), e); err == nil {
		t.Error("expected validation error")
	}
}
