package care

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockFluidRepo struct {
	entries []*FluidEntry
}

func (m *mockFluidRepo) Create(ctx context.Context, e *FluidEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockFluidRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*FluidEntry, int, error) {
	var out []*FluidEntry
	for _, e := range m.entries {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (m *mockFluidRepo) SumByKind(ctx context.Context, patientID uuid.UUID, kind string, from, to time.Time) (int, error) {
	sum := 0
	for _, e := range m.entries {
		if e.PatientID == patientID && e.Kind == kind &&
			!e.RecordedAt.Before(from) && e.RecordedAt.Before(to) {
			sum += e.AmountML
		}
	}
	return sum, nil
}

type mockNoteRepo struct {
	notes map[uuid.UUID]*Note
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[uuid.UUID]*Note)}
}

func (m *mockNoteRepo) Create(ctx context.Context, n *Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	m.notes[n.ID] = n
	return nil
}

func (m *mockNoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return nil, errors.New("note not found")
	}
	return n, nil
}

func (m *mockNoteRepo) Update(ctx context.Context, n *Note) error {
	m.notes[n.ID] = n
	return nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.notes, id)
	return nil
}

func (m *mockNoteRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	var out []*Note
	for _, n := range m.notes {
		if n.PatientID == patientID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func TestRecordFluidEntry_Validation(t *testing.T) {
	svc := NewService(&mockFluidRepo{}, newMockNoteRepo())

	tests := []struct {
		name string
		e    FluidEntry
	}{
		{"missing patient", FluidEntry{Kind: FluidIntake, AmountML: 200}},
		{"bad kind", FluidEntry{PatientID: uuid.New(), Kind: "sideways", AmountML: 200}},
		{"zero amount", FluidEntry{PatientID: uuid.New(), Kind: FluidIntake}},
		{"negative amount", FluidEntry{PatientID: uuid.New(), Kind: FluidOutput, AmountML: -50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.e
			if err := svc.RecordFluidEntry(context.Background(), &e); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRecordFluidEntry_DefaultsTimestamp(t *testing.T) {
	svc := NewService(&mockFluidRepo{}, newMockNoteRepo())

	e := &FluidEntry{PatientID: uuid.New(), Kind: FluidIntake, AmountML: 250, Label: "tea"}
	if err := svc.RecordFluidEntry(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.RecordedAt.IsZero() {
		t.Error("expected recorded_at to be defaulted")
	}
}

func TestFluidBalance(t *testing.T) {
	fluids := &mockFluidRepo{}
	svc := NewService(fluids, newMockNoteRepo())

	patientID := uuid.New()
	now := time.Now().UTC()
	entries := []*FluidEntry{
		{PatientID: patientID, Kind: FluidIntake, AmountML: 500, RecordedAt: now.Add(-2 * time.Hour)},
		{PatientID: patientID, Kind: FluidIntake, AmountML: 300, RecordedAt: now.Add(-1 * time.Hour)},
		{PatientID: patientID, Kind: FluidOutput, AmountML: 600, RecordedAt: now.Add(-30 * time.Minute)},
		// outside the window
		{PatientID: patientID, Kind: FluidIntake, AmountML: 1000, RecordedAt: now.Add(-48 * time.Hour)},
		// other patient
		{PatientID: uuid.New(), Kind: FluidIntake, AmountML: 999, RecordedAt: now.Add(-1 * time.Hour)},
	}
	for _, e := range entries {
		fluids.entries = append(fluids.entries, e)
	}

	balance, err := svc.FluidBalance(context.Background(), patientID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.IntakeML != 800 {
		t.Errorf("expected intake 800, got %d", balance.IntakeML)
	}
	if balance.OutputML != 600 {
		t.Errorf("expected output 600, got %d", balance.OutputML)
	}
	if balance.BalanceML != 200 {
		t.Errorf("expected balance 200, got %d", balance.BalanceML)
	}
}

func TestFluidBalance_InvalidWindow(t *testing.T) {
	svc := NewService(&mockFluidRepo{}, newMockNoteRepo())

	now := time.Now().UTC()
	if _, err := svc.FluidBalance(context.Background(), uuid.New(), now, now.Add(-time.Hour)); err == nil {
		t.Error("expected error when from is after to")
	}
}

func TestCreateNote(t *testing.T) {
	notes := newMockNoteRepo()
	svc := NewService(&mockFluidRepo{}, notes)

	n := &Note{PatientID: uuid.New(), Text: "Patient stable, no edema."}
	if err := svc.CreateNote(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Category != "general" {
		t.Errorf("expected default category general, got %s", n.Category)
	}

	if err := svc.CreateNote(context.Background(), &Note{PatientID: uuid.New()}); err == nil {
		t.Error("expected error for empty text")
	}
	if err := svc.CreateNote(context.Background(), &Note{Text: "orphan"}); err == nil {
		t.Error("expected error for missing patient")
	}
}

func TestUpdateNote_RequiresText(t *testing.T) {
	notes := newMockNoteRepo()
	svc := NewService(&mockFluidRepo{}, notes)

	n := &Note{PatientID: uuid.New(), Text: "initial"}
	if err := svc.CreateNote(context.Background(), n); err != nil {
		t.Fatalf("create: %v", err)
	}

	n.Text = ""
	if err := svc.UpdateNote(context.Background(), n); err == nil {
		t.Error("expected error for empty text")
	}
}
