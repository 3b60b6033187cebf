package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) *RepoPG {
	return &RepoPG{pool: pool}
}

const messageCols = `id, sender_id, recipient_id, patient_id, subject, body, read_at, created_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.PatientID,
		&m.Subject, &m.Body, &m.ReadAt, &m.CreatedAt)
	return &m, err
}

func (r *RepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_message (id, sender_id, recipient_id, patient_id, subject, body)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.SenderID, m.RecipientID, m.PatientID, m.Subject, m.Body)
	return err
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	return scanMessage(r.pool.QueryRow(ctx,
		`SELECT `+messageCols+` FROM staff_message WHERE id = $1`, id))
}

func (r *RepoPG) MarkRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE staff_message SET read_at = NOW() WHERE id = $1 AND read_at IS NULL`, id)
	return err
}

func (r *RepoPG) ListInbox(ctx context.Context, recipientID string, limit, offset int) ([]*Message, int, error) {
	return r.list(ctx, "recipient_id", recipientID, limit, offset)
}

func (r *RepoPG) ListSent(ctx context.Context, senderID string, limit, offset int) ([]*Message, int, error) {
	return r.list(ctx, "sender_id", senderID, limit, offset)
}

func (r *RepoPG) list(ctx context.Context, col, userID string, limit, offset int) ([]*Message, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM staff_message WHERE `+col+` = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageCols+` FROM staff_message WHERE `+col+` = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}
