// Package repo contains all database access logic for the Tripdesk API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL, type mapping, and translation of
// store-level errors into the domain error taxonomy.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Postgres error codes translated into the validation taxonomy.
const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

// translate maps a store-level error into the domain taxonomy:
// pgx.ErrNoRows becomes ErrNotFound, unique and check constraint violations
// become ErrValidation, anything else is wrapped in ErrStore with its message
// preserved. Errors already carrying a domain sentinel pass through unchanged.
// The check-violation mapping keeps the schema's CHECK constraints consistent
// with service-layer validation when a rule slips past it.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrStore) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: duplicate value for %s", domain.ErrValidation, pgErr.ConstraintName)
		case checkViolation:
			return fmt.Errorf("%w: constraint %s violated", domain.ErrValidation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrStore, err.Error())
}
