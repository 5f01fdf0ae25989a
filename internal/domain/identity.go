package domain

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated principal attached to a request context by
// the auth middleware. Services read it to stamp ownership on writes and to
// enforce ownership on mutations.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type identityKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the identity set by WithIdentity.
// The second return is false when the request is unauthenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
