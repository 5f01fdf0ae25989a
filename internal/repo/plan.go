package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// DayPlanRepo defines the persistence operations for DayPlans.
// All single-record operations are scoped by dayID to keep a plan from being
// addressed through the wrong parent.
type DayPlanRepo interface {
	// Create inserts a new plan and returns the persisted record.
	Create(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error)

	// GetByID retrieves a single plan by its UUID, scoped to the given dayID.
	// Returns domain.ErrNotFound if no plan with that ID exists under that day.
	GetByID(ctx context.Context, dayID, planID uuid.UUID) (domain.DayPlan, error)

	// ListByDayID returns all plans for a day ordered by order_index ascending;
	// equal order_index values keep creation order (stable).
	ListByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.DayPlan, error)

	// ListByTripID returns all plans under a trip's days, grouped in day order
	// then plan order. Used to assemble the days-with-plans view in one query.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error)

	// Update overwrites the mutable fields of a plan, scoped to the given dayID.
	// Returns domain.ErrNotFound if no plan with that ID exists under that day.
	Update(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error)

	// Delete removes a plan by ID, scoped to the given dayID.
	// Returns domain.ErrNotFound if no plan with that ID exists under that day.
	Delete(ctx context.Context, dayID, planID uuid.UUID) error
}

// pgDayPlanRepo is the Postgres implementation of DayPlanRepo.
type pgDayPlanRepo struct {
	db db
}

// NewDayPlanRepo constructs a DayPlanRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDayPlanRepo(db db) DayPlanRepo {
	return &pgDayPlanRepo{db: db}
}

const planColumns = `id, day_id, order_index, place_name, location, scheduled_at,
	duration_minutes, category, notes, created_at, updated_at`

// planOrder sorts by the user-assigned index with creation order breaking
// ties; id is a final tiebreak for rows created in the same microsecond.
const planOrder = `ORDER BY order_index ASC, created_at ASC, id ASC`

func (r *pgDayPlanRepo) Create(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error) {
	const q = `
		INSERT INTO day_plans (day_id, order_index, place_name, location,
			scheduled_at, duration_minutes, category, notes)
		VALUES (@day_id, @order_index, @place_name, @location,
			@scheduled_at, @duration_minutes, @category, @notes)
		RETURNING ` + planColumns

	args := pgx.NamedArgs{
		"day_id":           plan.DayID,
		"order_index":      plan.OrderIndex,
		"place_name":       plan.PlaceName,
		"location":         plan.Location,
		"scheduled_at":     plan.ScheduledAt, // nil becomes NULL
		"duration_minutes": plan.DurationMinutes,
		"category":         plan.Category,
		"notes":            plan.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPlan(row)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("repo.DayPlanRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgDayPlanRepo) GetByID(ctx context.Context, dayID, planID uuid.UUID) (domain.DayPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM day_plans WHERE id = @id AND day_id = @day_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": planID, "day_id": dayID})
	result, err := scanPlan(row)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("repo.DayPlanRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgDayPlanRepo) ListByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.DayPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM day_plans WHERE day_id = @day_id ` + planOrder

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayPlanRepo.ListByDayID: %w", translate(err))
	}
	return collectPlans(rows, "repo.DayPlanRepo.ListByDayID")
}

func (r *pgDayPlanRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error) {
	const q = `
		SELECT p.id, p.day_id, p.order_index, p.place_name, p.location, p.scheduled_at,
			p.duration_minutes, p.category, p.notes, p.created_at, p.updated_at
		FROM day_plans p
		JOIN travel_days d ON d.id = p.day_id
		WHERE d.trip_id = @trip_id
		ORDER BY d.day_number ASC, p.order_index ASC, p.created_at ASC, p.id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayPlanRepo.ListByTripID: %w", translate(err))
	}
	return collectPlans(rows, "repo.DayPlanRepo.ListByTripID")
}

func (r *pgDayPlanRepo) Update(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error) {
	const q = `
		UPDATE day_plans
		SET order_index      = @order_index,
		    place_name       = @place_name,
		    location         = @location,
		    scheduled_at     = @scheduled_at,
		    duration_minutes = @duration_minutes,
		    category         = @category,
		    notes            = @notes,
		    updated_at       = now()
		WHERE id = @id AND day_id = @day_id
		RETURNING ` + planColumns

	args := pgx.NamedArgs{
		"id":               plan.ID,
		"day_id":           plan.DayID,
		"order_index":      plan.OrderIndex,
		"place_name":       plan.PlaceName,
		"location":         plan.Location,
		"scheduled_at":     plan.ScheduledAt,
		"duration_minutes": plan.DurationMinutes,
		"category":         plan.Category,
		"notes":            plan.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPlan(row)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("repo.DayPlanRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgDayPlanRepo) Delete(ctx context.Context, dayID, planID uuid.UUID) error {
	const q = `DELETE FROM day_plans WHERE id = @id AND day_id = @day_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": planID, "day_id": dayID})
	if err != nil {
		return fmt.Errorf("repo.DayPlanRepo.Delete: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayPlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectPlans drains rows into a slice, closing rows before returning.
func collectPlans(rows pgx.Rows, op string) ([]domain.DayPlan, error) {
	defer rows.Close()

	var plans []domain.DayPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, translate(err))
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, translate(err))
	}

	return plans, nil
}

// scanPlan maps a single database row into a domain.DayPlan.
// scheduled_at is nullable.
func scanPlan(s scanner) (domain.DayPlan, error) {
	var (
		p     domain.DayPlan
		id    pgtype.UUID
		dayID pgtype.UUID
		sched pgtype.Timestamptz
	)

	err := s.Scan(&id, &dayID, &p.OrderIndex, &p.PlaceName, &p.Location, &sched,
		&p.DurationMinutes, &p.Category, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.DayPlan{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.DayID = uuid.UUID(dayID.Bytes)
	if sched.Valid {
		t := sched.Time
		p.ScheduledAt = &t
	}

	return p, nil
}
