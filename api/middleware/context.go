package middleware

import (
	"context"

	"github.com/mygroup/mygroup-backend/pkg/enums"
)

type identityKey struct{}

// Identity is the authenticated caller, taken from a verified access token.
type Identity struct {
	UserID int64
	Role   enums.UserRole
	Email  string
}

// WithIdentity stores the caller on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller set by Auth. ok is false on
// unauthenticated routes.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID > 0
}

// UserIDFromContext returns the caller's user id, or 0.
func UserIDFromContext(ctx context.Context) int64 {
	id, _ := IdentityFromContext(ctx)
	return id.UserID
}
