package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
// Ownership and identity checks do NOT live here — the service layer performs
// them before calling in.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListVisible returns trips owned by userID plus public trips of other
	// users, ordered by start_date descending, paginated.
	ListVisible(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error)

	// CountVisible returns the total number of trips ListVisible would match.
	CountVisible(ctx context.Context, userID uuid.UUID) (int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID; days and plans are removed by FK cascade.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, title, destination, start_date, end_date,
	status, is_public, description, cover_image_url, metadata, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO travel_plans (user_id, title, destination, start_date, end_date,
			status, is_public, description, cover_image_url, metadata)
		VALUES (@user_id, @title, @destination, @start_date, @end_date,
			@status, @is_public, @description, @cover_image_url, @metadata)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"user_id":         trip.UserID,
		"title":           trip.Title,
		"destination":     trip.Destination,
		"start_date":      trip.StartDate,
		"end_date":        trip.EndDate,
		"status":          trip.Status,
		"is_public":       trip.IsPublic,
		"description":     trip.Description,
		"cover_image_url": trip.CoverImageURL,
		"metadata":        metadataArg(trip.Metadata),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", translate(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM travel_plans WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

// ListVisible returns the caller's own trips plus public trips,
// most recent start date first.
func (r *pgTripRepo) ListVisible(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM travel_plans
		WHERE user_id = @user_id OR is_public
		ORDER BY start_date DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListVisible: %w", translate(err))
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListVisible: scan: %w", translate(err))
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListVisible: rows: %w", translate(err))
	}

	return trips, nil
}

// CountVisible counts trips visible to userID.
func (r *pgTripRepo) CountVisible(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM travel_plans WHERE user_id = @user_id OR is_public`

	var total int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.CountVisible: %w", translate(err))
	}
	return total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
// The date range and owner are immutable; days were generated from the range
// at creation time.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE travel_plans
		SET title           = @title,
		    destination     = @destination,
		    status          = @status,
		    is_public       = @is_public,
		    description     = @description,
		    cover_image_url = @cover_image_url,
		    metadata        = @metadata,
		    updated_at      = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":              trip.ID,
		"title":           trip.Title,
		"destination":     trip.Destination,
		"status":          trip.Status,
		"is_public":       trip.IsPublic,
		"description":     trip.Description,
		"cover_image_url": trip.CoverImageURL,
		"metadata":        metadataArg(trip.Metadata),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", translate(err))
	}
	return result, nil
}

// Delete removes a trip by primary key. Days and day plans go with it via
// ON DELETE CASCADE.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM travel_plans WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// metadataArg normalizes a nil metadata map to an empty JSON object so the
// column is never NULL and round-trips cleanly.
func metadataArg(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and calendar-date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t      domain.Trip
		id     pgtype.UUID
		userID pgtype.UUID
		start  pgtype.Date
		end    pgtype.Date
		status string
	)

	err := s.Scan(&id, &userID, &t.Title, &t.Destination, &start, &end,
		&status, &t.IsPublic, &t.Description, &t.CoverImageURL, &t.Metadata,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	t.Status = domain.TripStatus(status)

	return t, nil
}
