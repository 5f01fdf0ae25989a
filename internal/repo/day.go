package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// DayRepo defines the persistence operations for Days.
// Days are written once, as a batch, at trip creation; there is no update or
// single-insert path.
type DayRepo interface {
	// CreateBatch inserts the given days in one COPY operation.
	// Days must already carry their trip ID, day number, and date; generated
	// IDs and timestamps are written back onto the slice elements.
	CreateBatch(ctx context.Context, days []domain.Day) error

	// GetByID retrieves a single day by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no day with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error)

	// ListByTripID returns all days for a trip ordered by day_number ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error)
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

// CreateBatch bulk-inserts the generated day sequence via COPY.
// IDs and timestamps are assigned here rather than by column defaults because
// COPY cannot return generated values; they are written back into days so the
// caller hands addressable records straight to the client.
func (r *pgDayRepo) CreateBatch(ctx context.Context, days []domain.Day) error {
	if len(days) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, len(days))
	for i := range days {
		d := &days[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.CreatedAt = now
		d.UpdatedAt = now
		rows[i] = []any{d.ID, d.TripID, d.DayNumber, d.Date, d.Title, d.Theme,
			d.CreatedAt, d.UpdatedAt}
	}

	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"travel_days"},
		[]string{"id", "trip_id", "day_number", "date", "title", "theme",
			"created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("repo.DayRepo.CreateBatch: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a day by primary key, scoped to its trip.
func (r *pgDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error) {
	const q = `
		SELECT id, trip_id, day_number, date, title, theme, created_at, updated_at
		FROM travel_days
		WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID})
	result, err := scanDay(row)
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

// ListByTripID returns the trip's days in day_number order, which by the
// generation invariant is also calendar order.
func (r *pgDayRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	const q = `
		SELECT id, trip_id, day_number, date, title, theme, created_at, updated_at
		FROM travel_days
		WHERE trip_id = @trip_id
		ORDER BY day_number ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: %w", translate(err))
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListByTripID: scan: %w", translate(err))
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: rows: %w", translate(err))
	}

	return days, nil
}

// scanDay maps a single database row into a domain.Day.
func scanDay(s scanner) (domain.Day, error) {
	var (
		d      domain.Day
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &d.DayNumber, &date, &d.Title, &d.Theme,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Day{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	d.Date = date.Time

	return d, nil
}
