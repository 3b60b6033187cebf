package messaging

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Send(ctx context.Context, m *Message) error {
	if m.SenderID == "" {
		return fmt.Errorf("sender_id is required")
	}
	if m.RecipientID == "" {
		return fmt.Errorf("recipient_id is required")
	}
	if m.Body == "" {
		return fmt.Errorf("body is required")
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.repo.GetByID(ctx, id)
}

// MarkRead stamps the message as read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.RecipientID != userID {
		return fmt.Errorf("only the recipient can mark a message read")
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) Inbox(ctx context.Context, recipientID string, limit, offset int) ([]*Message, int, error) {
	return s.repo.ListInbox(ctx, recipientID, limit, offset)
}

func (s *Service) Sent(ctx context.Context, senderID string, limit, offset int) ([]*Message, int, error) {
	return s.repo.ListSent(ctx, senderID, limit, offset)
}
