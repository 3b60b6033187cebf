package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only audit record: a mutating API request attributed
// to an authenticated user. Entries are never updated or deleted.
type Entry struct {
	ID           uuid.UUID              `db:"id" json:"id"`
	UserID       string                 `db:"user_id" json:"user_id"`
	UserRole     string                 `db:"user_role" json:"user_role"`
	Action       string                 `db:"action" json:"action"`
	ResourceType string                 `db:"resource_type" json:"resource_type"`
	ResourceID   *string                `db:"resource_id" json:"resource_id,omitempty"`
	Details      map[string]interface{} `db:"details" json:"details"`
	IPAddress    *string                `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
}
