package audit

import (
	"context"
	"time"

	"github.com/homehospital/hha/internal/platform/middleware"
)

// Service persists audit entries and serves the admin read API. It
// implements middleware.AuditRecorder, so the HTTP audit middleware writes
// through it.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record implements middleware.AuditRecorder. The write runs in its own
// round-trip, independent of whatever transaction the business handler used.
func (s *Service) Record(ctx context.Context, e middleware.AuditEntry) error {
	entry := &Entry{
		UserID:       e.UserID,
		UserRole:     e.UserRole,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		Details:      e.Details,
		CreatedAt:    e.Timestamp,
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if e.ResourceID != "" {
		entry.ResourceID = &e.ResourceID
	}
	if e.RequestID != "" {
		if entry.Details == nil {
			entry.Details = map[string]interface{}{}
		}
		entry.Details["request_id"] = e.RequestID
	}
	if e.IPAddress != "" {
		entry.IPAddress = &e.IPAddress
	}
	return s.repo.Insert(ctx, entry)
}

// Search lists audit entries, newest first.
func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
