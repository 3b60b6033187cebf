package clinical

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Diagnosis Repository ===========

type diagnosisRepoPG struct{ pool *pgxpool.Pool }

func NewDiagnosisRepoPG(pool *pgxpool.Pool) DiagnosisRepository {
	return &diagnosisRepoPG{pool: pool}
}

const diagnosisCols = `id, patient_id, icd10_code, text, status, diagnosed_by,
	diagnosed_at, created_at, updated_at`

func scanDiagnosis(row pgx.Row) (*Diagnosis, error) {
	var d Diagnosis
	err := row.Scan(&d.ID, &d.PatientID, &d.ICD10Code, &d.Text, &d.Status,
		&d.DiagnosedBy, &d.DiagnosedAt, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *diagnosisRepoPG) Create(ctx context.Context, d *Diagnosis) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnosis (id, patient_id, icd10_code, text, status, diagnosed_by, diagnosed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.PatientID, d.ICD10Code, d.Text, d.Status, d.DiagnosedBy, d.DiagnosedAt)
	return err
}

func (r *diagnosisRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return scanDiagnosis(r.pool.QueryRow(ctx,
		`SELECT `+diagnosisCols+` FROM diagnosis WHERE id = $1`, id))
}

func (r *diagnosisRepoPG) Update(ctx context.Context, d *Diagnosis) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE diagnosis SET icd10_code=$2, text=$3, status=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.ICD10Code, d.Text, d.Status)
	return err
}

func (r *diagnosisRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diagnosis WHERE id = $1`, id)
	return err
}

func (r *diagnosisRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM diagnosis WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+diagnosisCols+` FROM diagnosis WHERE patient_id = $1
		 ORDER BY diagnosed_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Diagnosis
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}

// =========== Medication Order Repository ===========

type medicationOrderRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationOrderRepoPG(pool *pgxpool.Pool) MedicationOrderRepository {
	return &medicationOrderRepoPG{pool: pool}
}

const medOrderCols = `id, patient_id, name, dose, route, schedule, status,
	prescribed_by, started_at, ended_at, created_at, updated_at`

func scanMedicationOrder(row pgx.Row) (*MedicationOrder, error) {
	var m MedicationOrder
	err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dose, &m.Route, &m.Schedule,
		&m.Status, &m.PrescribedBy, &m.StartedAt, &m.EndedAt, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *medicationOrderRepoPG) Create(ctx context.Context, m *MedicationOrder) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medication_order (id, patient_id, name, dose, route, schedule,
			status, prescribed_by, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.PatientID, m.Name, m.Dose, m.Route, m.Schedule,
		m.Status, m.PrescribedBy, m.StartedAt, m.EndedAt)
	return err
}

func (r *medicationOrderRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicationOrder, error) {
	return scanMedicationOrder(r.pool.QueryRow(ctx,
		`SELECT `+medOrderCols+` FROM medication_order WHERE id = $1`, id))
}

func (r *medicationOrderRepoPG) Update(ctx context.Context, m *MedicationOrder) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE medication_order SET name=$2, dose=$3, route=$4, schedule=$5,
			status=$6, started_at=$7, ended_at=$8, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dose, m.Route, m.Schedule, m.Status, m.StartedAt, m.EndedAt)
	return err
}

func (r *medicationOrderRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM medication_order WHERE id = $1`, id)
	return err
}

func (r *medicationOrderRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicationOrder, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM medication_order WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+medOrderCols+` FROM medication_order WHERE patient_id = $1
		 ORDER BY started_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicationOrder
	for rows.Next() {
		m, err := scanMedicationOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}
