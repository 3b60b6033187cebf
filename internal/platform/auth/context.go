package auth

import "context"

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
	identityKey contextKey = "identity"
)

// RoleAnonymous is the sentinel role attributed to requests that carry no
// resolvable identity.
const RoleAnonymous = "anonymous"

// WithAttribution records the authenticated user id and primary role on the
// request context. It is written once by the authentication middleware and
// read-only downstream; the audit layer reads it without re-validating.
func WithAttribution(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, role)
}

// WithIdentity stores the full verified identity on the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// UserIDFromContext returns the authenticated user id, or "" when the request
// was not attributed to a user.
func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}

// UserRoleFromContext returns the attributed primary role, defaulting to the
// anonymous sentinel.
func UserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	if role == "" {
		return RoleAnonymous
	}
	return role
}

// IdentityFromContext returns the verified identity, or nil for
// unauthenticated requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
