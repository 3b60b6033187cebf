package vitals

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Reading Repository ===========

type readingRepoPG struct{ pool *pgxpool.Pool }

func NewReadingRepoPG(pool *pgxpool.Pool) ReadingRepository {
	return &readingRepoPG{pool: pool}
}

const readingCols = `id, patient_id, recorded_at, heart_rate, spo2, temperature,
	respiratory_rate, systolic_bp, diastolic_bp, blood_glucose, recorded_by, created_at`

func scanReading(row pgx.Row) (*Reading, error) {
	var r Reading
	err := row.Scan(&r.ID, &r.PatientID, &r.RecordedAt, &r.HeartRate, &r.SpO2,
		&r.Temperature, &r.RespiratoryRate, &r.SystolicBP, &r.DiastolicBP,
		&r.BloodGlucose, &r.RecordedBy, &r.CreatedAt)
	return &r, err
}

func (r *readingRepoPG) Create(ctx context.Context, reading *Reading) error {
	reading.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vital_reading (id, patient_id, recorded_at, heart_rate, spo2,
			temperature, respiratory_rate, systolic_bp, diastolic_bp, blood_glucose, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		reading.ID, reading.PatientID, reading.RecordedAt, reading.HeartRate, reading.SpO2,
		reading.Temperature, reading.RespiratoryRate, reading.SystolicBP, reading.DiastolicBP,
		reading.BloodGlucose, reading.RecordedBy)
	return err
}

func (r *readingRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Reading, error) {
	return scanReading(r.pool.QueryRow(ctx,
		`SELECT `+readingCols+` FROM vital_reading WHERE id = $1`, id))
}

func (r *readingRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Reading, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM vital_reading WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+readingCols+` FROM vital_reading WHERE patient_id = $1
		 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, reading)
	}
	return items, total, nil
}

// =========== Alarm Repository ===========

type alarmRepoPG struct{ pool *pgxpool.Pool }

func NewAlarmRepoPG(pool *pgxpool.Pool) AlarmRepository {
	return &alarmRepoPG{pool: pool}
}

const alarmCols = `id, patient_id, reading_id, parameter, value, threshold, bound,
	severity, status, triggered_at, acknowledged_by, acknowledged_at, resolved_at, created_at`

func scanAlarm(row pgx.Row) (*Alarm, error) {
	var a Alarm
	err := row.Scan(&a.ID, &a.PatientID, &a.ReadingID, &a.Parameter, &a.Value,
		&a.Threshold, &a.Bound, &a.Severity, &a.Status, &a.TriggeredAt,
		&a.AcknowledgedBy, &a.AcknowledgedAt, &a.ResolvedAt, &a.CreatedAt)
	return &a, err
}

func (r *alarmRepoPG) Create(ctx context.Context, a *Alarm) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO alarm (id, patient_id, reading_id, parameter, value, threshold,
			bound, severity, status, triggered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PatientID, a.ReadingID, a.Parameter, a.Value, a.Threshold,
		a.Bound, a.Severity, a.Status, a.TriggeredAt)
	return err
}

func (r *alarmRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alarm, error) {
	return scanAlarm(r.pool.QueryRow(ctx, `SELECT `+alarmCols+` FROM alarm WHERE id = $1`, id))
}

func (r *alarmRepoPG) Update(ctx context.Context, a *Alarm) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE alarm SET status=$2, acknowledged_by=$3, acknowledged_at=$4, resolved_at=$5
		WHERE id = $1`,
		a.ID, a.Status, a.AcknowledgedBy, a.AcknowledgedAt, a.ResolvedAt)
	return err
}

func (r *alarmRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Alarm, int, error) {
	where := []string{}
	args := []interface{}{}
	idx := 1

	if v, ok := params["patient_id"]; ok {
		where = append(where, fmt.Sprintf("patient_id = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["status"]; ok {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["severity"]; ok {
		where = append(where, fmt.Sprintf("severity = $%d", idx))
		args = append(args, v)
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQ := fmt.Sprintf("SELECT COUNT(*) FROM alarm %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM alarm %s ORDER BY triggered_at DESC LIMIT $%d OFFSET $%d",
		alarmCols, whereClause, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Alarm
	for rows.Next() {
		a, err := scanAlarm(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}
