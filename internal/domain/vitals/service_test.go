package vitals

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockReadingRepo struct {
	readings  map[uuid.UUID]*Reading
	createErr error
}

func newMockReadingRepo() *mockReadingRepo {
	return &mockReadingRepo{readings: make(map[uuid.UUID]*Reading)}
}

func (m *mockReadingRepo) Create(ctx context.Context, r *Reading) error {
	if m.createErr != nil {
		return m.createErr
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.readings[r.ID] = r
	return nil
}

func (m *mockReadingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Reading, error) {
	r, ok := m.readings[id]
	if !ok {
		return nil, errors.New("reading not found")
	}
	return r, nil
}

func (m *mockReadingRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Reading, int, error) {
	var out []*Reading
	for _, r := range m.readings {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type mockAlarmRepo struct {
	alarms    map[uuid.UUID]*Alarm
	createErr error
}

func newMockAlarmRepo() *mockAlarmRepo {
	return &mockAlarmRepo{alarms: make(map[uuid.UUID]*Alarm)}
}

func (m *mockAlarmRepo) Create(ctx context.Context, a *Alarm) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.alarms[a.ID] = a
	return nil
}

func (m *mockAlarmRepo) GetByID(ctx context.Context, id uuid.UUID) (*Alarm, error) {
	a, ok := m.alarms[id]
	if !ok {
		return nil, errors.New("alarm not found")
	}
	return a, nil
}

func (m *mockAlarmRepo) Update(ctx context.Context, a *Alarm) error {
	m.alarms[a.ID] = a
	return nil
}

func (m *mockAlarmRepo) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Alarm, int, error) {
	var out []*Alarm
	for _, a := range m.alarms {
		out = append(out, a)
	}
	return out, len(out), nil
}

type mockBroadcaster struct {
	payloads []interface{}
}

func (m *mockBroadcaster) Broadcast(payload interface{}) {
	m.payloads = append(m.payloads, payload)
}

type mockStats struct {
	severities []string
}

func (m *mockStats) AlarmRaised(severity string) {
	m.severities = append(m.severities, severity)
}

func newTestService(readings *mockReadingRepo, alarms *mockAlarmRepo, b *mockBroadcaster, stats *mockStats) *Service {
	return NewService(readings, alarms, nil, b, stats, zerolog.New(os.Stderr))
}

func TestRecordReading_NominalNoAlarm(t *testing.T) {
	readings := newMockReadingRepo()
	alarms := newMockAlarmRepo()
	b := &mockBroadcaster{}
	svc := newTestService(readings, alarms, b, &mockStats{})

	r := nominalReading()
	alarm, err := svc.RecordReading(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alarm != nil {
		t.Errorf("expected no alarm, got %+v", alarm)
	}
	if len(readings.readings) != 1 {
		t.Errorf("expected reading to be persisted")
	}
	if len(alarms.alarms) != 0 {
		t.Errorf("expected no persisted alarm")
	}
	if len(b.payloads) != 0 {
		t.Errorf("expected no broadcast")
	}
}

func TestRecordReading_ViolationRaisesAlarm(t *testing.T) {
	readings := newMockReadingRepo()
	alarms := newMockAlarmRepo()
	b := &mockBroadcaster{}
	stats := &mockStats{}
	svc := newTestService(readings, alarms, b, stats)

	r := nominalReading()
	r.SpO2 = f(82)

	alarm, err := svc.RecordReading(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alarm == nil {
		t.Fatal("expected an alarm")
	}
	if alarm.Parameter != "spo2" || alarm.Severity != SeverityCritical {
		t.Errorf("wrong alarm: %s/%s", alarm.Parameter, alarm.Severity)
	}
	if alarm.Status != AlarmActive {
		t.Errorf("new alarm must be active, got %s", alarm.Status)
	}
	if _, ok := alarms.alarms[alarm.ID]; !ok {
		t.Error("expected alarm to be persisted")
	}
	if len(stats.severities) != 1 || stats.severities[0] != SeverityCritical {
		t.Errorf("expected one critical stat, got %v", stats.severities)
	}
	if len(b.payloads) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(b.payloads))
	}
	event, ok := b.payloads[0].(*AlarmEvent)
	if !ok {
		t.Fatalf("expected *AlarmEvent payload, got %T", b.payloads[0])
	}
	if event.AlarmID != alarm.ID {
		t.Error("broadcast event must reference the persisted alarm id")
	}
}

func TestRecordReading_ValidationFailures(t *testing.T) {
	svc := newTestService(newMockReadingRepo(), newMockAlarmRepo(), &mockBroadcaster{}, &mockStats{})

	if _, err := svc.RecordReading(context.Background(), &Reading{HeartRate: f(70)}); err == nil {
		t.Error("expected error for missing patient id")
	}
	if _, err := svc.RecordReading(context.Background(), &Reading{PatientID: uuid.New()}); err == nil {
		t.Error("expected error for reading with no measurements")
	}
}

func TestRecordReading_ReadingWriteFailureFailsRequest(t *testing.T) {
	readings := newMockReadingRepo()
	readings.createErr = errors.New("db down")
	b := &mockBroadcaster{}
	svc := newTestService(readings, newMockAlarmRepo(), b, &mockStats{})

	r := nominalReading()
	r.SpO2 = f(80)
	if _, err := svc.RecordReading(context.Background(), r); err == nil {
		t.Fatal("expected error when the reading write fails")
	}
	if len(b.payloads) != 0 {
		t.Error("no broadcast may happen when the reading write fails")
	}
}

func TestRecordReading_AlarmPersistFailureSwallowed(t *testing.T) {
	readings := newMockReadingRepo()
	alarms := newMockAlarmRepo()
	alarms.createErr = errors.New("alarm table unavailable")
	b := &mockBroadcaster{}
	svc := newTestService(readings, alarms, b, &mockStats{})

	r := nominalReading()
	r.HeartRate = f(150)

	alarm, err := svc.RecordReading(context.Background(), r)
	if err != nil {
		t.Fatalf("alarm persist failure must not fail ingestion: %v", err)
	}
	if alarm == nil {
		t.Fatal("expected the in-memory alarm to be returned")
	}
	if len(readings.readings) != 1 {
		t.Error("reading must stay persisted")
	}
	// The broadcast still goes out so subscribers are not blinded by a
	// storage hiccup.
	if len(b.payloads) != 1 {
		t.Errorf("expected broadcast despite persist failure, got %d", len(b.payloads))
	}
}

func TestAcknowledgeAlarm(t *testing.T) {
	alarms := newMockAlarmRepo()
	svc := newTestService(newMockReadingRepo(), alarms, &mockBroadcaster{}, &mockStats{})

	alarm := &Alarm{ID: uuid.New(), Status: AlarmActive}
	alarms.alarms[alarm.ID] = alarm

	got, err := svc.AcknowledgeAlarm(context.Background(), alarm.ID, "user-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != AlarmAcknowledged {
		t.Errorf("expected acknowledged, got %s", got.Status)
	}
	if got.AcknowledgedBy == nil || *got.AcknowledgedBy != "user-9" {
		t.Error("expected acknowledging user to be recorded")
	}
	if got.AcknowledgedAt == nil {
		t.Error("expected acknowledgement timestamp")
	}

	// Acknowledging twice fails.
	if _, err := svc.AcknowledgeAlarm(context.Background(), alarm.ID, "user-9"); err == nil {
		t.Error("expected error when acknowledging a non-active alarm")
	}
}

func TestResolveAlarm(t *testing.T) {
	alarms := newMockAlarmRepo()
	svc := newTestService(newMockReadingRepo(), alarms, &mockBroadcaster{}, &mockStats{})

	active := &Alarm{ID: uuid.New(), Status: AlarmActive}
	acked := &Alarm{ID: uuid.New(), Status: AlarmAcknowledged}
	alarms.alarms[active.ID] = active
	alarms.alarms[acked.ID] = acked

	for _, id := range []uuid.UUID{active.ID, acked.ID} {
		got, err := svc.ResolveAlarm(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != AlarmResolved {
			t.Errorf("expected resolved, got %s", got.Status)
		}
		if got.ResolvedAt == nil {
			t.Error("expected resolution timestamp")
		}
	}

	if _, err := svc.ResolveAlarm(context.Background(), active.ID); err == nil {
		t.Error("expected error when resolving an already resolved alarm")
	}
}
