package vitals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Broadcaster fans an alarm event out to live subscribers. Satisfied by the
// ws hub; delivery is best-effort and failures stay inside the broadcaster.
type Broadcaster interface {
	Broadcast(payload interface{})
}

// AlarmStats counts raised alarms, typically backed by prometheus.
type AlarmStats interface {
	AlarmRaised(severity string)
}

// Service records vital-sign readings and drives the alarm path: evaluate
// against the threshold table, persist the alarm, fan it out. Nothing past
// the reading write is allowed to fail the ingestion.
type Service struct {
	readings    ReadingRepository
	alarms      AlarmRepository
	thresholds  []Threshold
	broadcaster Broadcaster
	stats       AlarmStats
	logger      zerolog.Logger
}

func NewService(readings ReadingRepository, alarms AlarmRepository, thresholds []Threshold,
	broadcaster Broadcaster, stats AlarmStats, logger zerolog.Logger) *Service {
	if thresholds == nil {
		thresholds = DefaultThresholds
	}
	return &Service{
		readings:    readings,
		alarms:      alarms,
		thresholds:  thresholds,
		broadcaster: broadcaster,
		stats:       stats,
		logger:      logger,
	}
}

// Thresholds returns the active threshold table.
func (s *Service) Thresholds() []Threshold {
	return s.thresholds
}

// RecordReading persists a reading, evaluates it and, on a threshold
// violation, persists and broadcasts the alarm. The returned alarm is nil
// when the reading is nominal. Alarm persistence and broadcast failures are
// logged and swallowed; they never undo or fail the reading write.
func (s *Service) RecordReading(ctx context.Context, r *Reading) (*Alarm, error) {
	if r.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if !hasMeasurement(r) {
		return nil, fmt.Errorf("reading has no measured parameters")
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now().UTC()
	}

	if err := s.readings.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reading: %w", err)
	}

	event := Evaluate(r, s.thresholds)
	if event == nil {
		return nil, nil
	}

	alarm := &Alarm{
		ID:          uuid.New(),
		PatientID:   event.PatientID,
		ReadingID:   event.ReadingID,
		Parameter:   event.Parameter,
		Value:       event.Value,
		Threshold:   event.Threshold,
		Bound:       event.Bound,
		Severity:    event.Severity,
		Status:      AlarmActive,
		TriggeredAt: event.TriggeredAt,
	}
	event.AlarmID = alarm.ID

	if err := s.alarms.Create(ctx, alarm); err != nil {
		s.logger.Warn().
			Err(err).
			Str("patient_id", alarm.PatientID.String()).
			Str("parameter", alarm.Parameter).
			Msg("alarm persist failed, reading kept")
	}
	if s.stats != nil {
		s.stats.AlarmRaised(alarm.Severity)
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(event)
	}

	return alarm, nil
}

func hasMeasurement(r *Reading) bool {
	return r.HeartRate != nil || r.SpO2 != nil || r.Temperature != nil ||
		r.RespiratoryRate != nil || r.SystolicBP != nil || r.DiastolicBP != nil ||
		r.BloodGlucose != nil
}

func (s *Service) GetReading(ctx context.Context, id uuid.UUID) (*Reading, error) {
	return s.readings.GetByID(ctx, id)
}

func (s *Service) ListReadingsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Reading, int, error) {
	return s.readings.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) GetAlarm(ctx context.Context, id uuid.UUID) (*Alarm, error) {
	return s.alarms.GetByID(ctx, id)
}

func (s *Service) SearchAlarms(ctx context.Context, params map[string]string, limit, offset int) ([]*Alarm, int, error) {
	return s.alarms.Search(ctx, params, limit, offset)
}

// AcknowledgeAlarm moves an active alarm to acknowledged, recording who.
func (s *Service) AcknowledgeAlarm(ctx context.Context, id uuid.UUID, userID string) (*Alarm, error) {
	alarm, err := s.alarms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alarm.Status != AlarmActive {
		return nil, fmt.Errorf("alarm is %s, only active alarms can be acknowledged", alarm.Status)
	}
	now := time.Now().UTC()
	alarm.Status = AlarmAcknowledged
	alarm.AcknowledgedBy = &userID
	alarm.AcknowledgedAt = &now
	if err := s.alarms.Update(ctx, alarm); err != nil {
		return nil, err
	}
	return alarm, nil
}

// ResolveAlarm closes an alarm. Both active and acknowledged alarms resolve.
func (s *Service) ResolveAlarm(ctx context.Context, id uuid.UUID) (*Alarm, error) {
	alarm, err := s.alarms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alarm.Status == AlarmResolved {
		return nil, fmt.Errorf("alarm is already resolved")
	}
	now := time.Now().UTC()
	alarm.Status = AlarmResolved
	alarm.ResolvedAt = &now
	if err := s.alarms.Update(ctx, alarm); err != nil {
		return nil, err
	}
	return alarm, nil
}
