package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homehospital/hha/internal/platform/auth"
)

// AuditedPrefix is the API path namespace subject to mandatory audit logging.
const AuditedPrefix = "/api/v1/"

// AuditEntry captures one mutating request: who did what to which resource,
// and how the request ended.
type AuditEntry struct {
	UserID       string
	UserRole     string
	Action       string // create, update, replace, delete
	ResourceType string
	ResourceID   string
	Details      map[string]interface{}
	IPAddress    string
	RequestID    string
	Timestamp    time.Time
}

// AuditRecorder persists audit entries. Decoupling the middleware from the
// concrete store lets tests substitute a mock.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(ctx context.Context, entry AuditEntry) error

func (f AuditRecorderFunc) Record(ctx context.Context, entry AuditEntry) error {
	return f(ctx, entry)
}

// AuditFailureCounter counts swallowed audit-write failures, typically a
// prometheus counter.
type AuditFailureCounter interface {
	Inc()
}

// Audit returns middleware that writes one audit entry per mutating request
// under the audited prefix. The handler runs first so the entry always
// carries the final status code and wall-clock duration; the write itself is
// independent of the business transaction. A failed write is logged at
// warning level and swallowed: it never alters the response, and it is not
// retried. Requests without a resolvable user id are skipped entirely rather
// than attributed to a sentinel; that is deliberate policy, not an oversight.
func Audit(logger zerolog.Logger, recorder AuditRecorder, failures AuditFailureCounter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			action, mutating := methodToAction(req.Method)
			if !mutating || !strings.HasPrefix(req.URL.Path, AuditedPrefix) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			ctx := req.Context()
			userID := auth.UserIDFromContext(ctx)
			if userID == "" {
				return err
			}

			// Echo's error handler runs after this middleware, so for a
			// failed handler the response status is not committed yet.
			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			resourceType, resourceID := splitResourcePath(req.URL.Path)
			entry := AuditEntry{
				UserID:       userID,
				UserRole:     auth.UserRoleFromContext(ctx),
				Action:       action,
				ResourceType: resourceType,
				ResourceID:   resourceID,
				Details: map[string]interface{}{
					"status_code": status,
					"duration_ms": time.Since(start).Milliseconds(),
				},
				IPAddress: c.RealIP(),
				Timestamp: time.Now().UTC(),
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			if recErr := recorder.Record(ctx, entry); recErr != nil {
				if failures != nil {
					failures.Inc()
				}
				logger.Warn().
					Err(recErr).
					Str("request_id", entry.RequestID).
					Str("user_id", entry.UserID).
					Str("action", entry.Action).
					Str("resource_type", entry.ResourceType).
					Msg("audit write failed, entry dropped")
			}

			return err
		}
	}
}

// methodToAction maps HTTP methods to the audit verb set. Read-only methods
// are never audited.
func methodToAction(method string) (string, bool) {
	switch method {
	case http.MethodPost:
		return "create", true
	case http.MethodPut:
		return "replace", true
	case http.MethodPatch:
		return "update", true
	case http.MethodDelete:
		return "delete", true
	default:
		return "", false
	}
}

// splitResourcePath parses the resource type and optional resource id from a
// path under the audited prefix:
//
//	/api/v1/patients        -> ("patients", "")
//	/api/v1/patients/123    -> ("patients", "123")
//	/api/v1/alarms/9/ack    -> ("alarms", "9")
func splitResourcePath(path string) (string, string) {
	segments := strings.Split(strings.TrimPrefix(path, AuditedPrefix), "/")
	resourceType := "unknown"
	resourceID := ""
	if len(segments) > 0 && segments[0] != "" {
		resourceType = segments[0]
	}
	if len(segments) > 1 && segments[1] != "" {
		resourceID = segments[1]
	}
	return resourceType, resourceID
}
