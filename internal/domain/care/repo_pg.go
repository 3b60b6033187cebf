package care

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Fluid Repository ===========

type fluidRepoPG struct{ pool *pgxpool.Pool }

func NewFluidRepoPG(pool *pgxpool.Pool) FluidRepository {
	return &fluidRepoPG{pool: pool}
}

const fluidCols = `id, patient_id, kind, amount_ml, label, recorded_by, recorded_at, created_at`

func scanFluidEntry(row pgx.Row) (*FluidEntry, error) {
	var e FluidEntry
	err := row.Scan(&e.ID, &e.PatientID, &e.Kind, &e.AmountML, &e.Label,
		&e.RecordedBy, &e.RecordedAt, &e.CreatedAt)
	return &e, err
}

func (r *fluidRepoPG) Create(ctx context.Context, e *FluidEntry) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fluid_entry (id, patient_id, kind, amount_ml, label, recorded_by, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.PatientID, e.Kind, e.AmountML, e.Label, e.RecordedBy, e.RecordedAt)
	return err
}

func (r *fluidRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*FluidEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM fluid_entry WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+fluidCols+` FROM fluid_entry WHERE patient_id = $1
		 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*FluidEntry
	for rows.Next() {
		e, err := scanFluidEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *fluidRepoPG) SumByKind(ctx context.Context, patientID uuid.UUID, kind string, from, to time.Time) (int, error) {
	var sum int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_ml), 0) FROM fluid_entry
		WHERE patient_id = $1 AND kind = $2 AND recorded_at >= $3 AND recorded_at < $4`,
		patientID, kind, from, to).Scan(&sum)
	return sum, err
}

// =========== Note Repository ===========

type noteRepoPG struct{ pool *pgxpool.Pool }

func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

const noteCols = `id, patient_id, category, text, author_id, created_at, updated_at`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.PatientID, &n.Category, &n.Text, &n.AuthorID,
		&n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *noteRepoPG) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinical_note (id, patient_id, category, text, author_id)
		VALUES ($1,$2,$3,$4,$5)`,
		n.ID, n.PatientID, n.Category, n.Text, n.AuthorID)
	return err
}

func (r *noteRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	return scanNote(r.pool.QueryRow(ctx,
		`SELECT `+noteCols+` FROM clinical_note WHERE id = $1`, id))
}

func (r *noteRepoPG) Update(ctx context.Context, n *Note) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE clinical_note SET category=$2, text=$3, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.Category, n.Text)
	return err
}

func (r *noteRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clinical_note WHERE id = $1`, id)
	return err
}

func (r *noteRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_note WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteCols+` FROM clinical_note WHERE patient_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, nil
}
