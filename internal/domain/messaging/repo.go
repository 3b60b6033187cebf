package messaging

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	ListInbox(ctx context.Context, recipientID string, limit, offset int) ([]*Message, int, error)
	ListSent(ctx context.Context, senderID string, limit, offset int) ([]*Message, int, error)
}
