// Package service contains the business logic for the Tripdesk API.
// Services resolve the caller's identity, enforce ownership and validation
// rules, and orchestrate repo calls. No SQL lives here — services depend on
// repo interfaces, not implementations.
package service

import (
	"context"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// requireIdentity returns the identity attached to ctx by the auth
// middleware, or domain.ErrUnauthenticated when there is none.
// Every gateway operation calls this first.
func requireIdentity(ctx context.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
