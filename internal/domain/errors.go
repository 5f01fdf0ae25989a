package domain

import "errors"

// ErrUnauthenticated is returned when an operation requires an identity and
// the request carries no active session.
// Handlers should map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrUnauthorized is returned when a session is present but the caller is not
// the owner of the resource being mutated.
// Handlers should map this to HTTP 403.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database, or exists but is not visible to
// the caller (private trips of other users deliberately read as absent).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. end date before start date, unknown status).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStore wraps opaque backend failures surfaced by the repo layer.
// The original message is preserved for logging; handlers map this to
// HTTP 500 without echoing the store detail to the client.
var ErrStore = errors.New("store error")
