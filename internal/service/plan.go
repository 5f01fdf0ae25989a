package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
)

// DayPlanService implements the gateway operations for DayPlans.
// It holds trips and days repos because ownership chains upward:
// plan → day → trip → owner.
type DayPlanService struct {
	trips repo.TripRepo
	days  repo.DayRepo
	plans repo.DayPlanRepo
}

// NewDayPlanService constructs a DayPlanService backed by the provided repos.
func NewDayPlanService(trips repo.TripRepo, days repo.DayRepo, plans repo.DayPlanRepo) *DayPlanService {
	return &DayPlanService{trips: trips, days: days, plans: plans}
}

// Create validates the plan, verifies the caller owns the day's trip, then
// persists. Returns domain.ErrValidation for rule violations,
// domain.ErrNotFound if the day does not exist under the trip,
// domain.ErrUnauthorized if the trip belongs to someone else.
func (s *DayPlanService) Create(ctx context.Context, tripID uuid.UUID, plan domain.DayPlan) (domain.DayPlan, error) {
	if err := s.ownedDay(ctx, tripID, plan.DayID); err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.Create: %w", err)
	}
	if err := validatePlan(plan); err != nil {
		return domain.DayPlan{}, err
	}
	result, err := s.plans.Create(ctx, plan)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.Create: %w", err)
	}
	return result, nil
}

// ListByDay returns all plans for a day ordered by order_index ascending with
// creation-order tie-break. Always returns a non-nil slice.
func (s *DayPlanService) ListByDay(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.DayPlan, error) {
	if err := s.visibleDay(ctx, tripID, dayID); err != nil {
		return nil, fmt.Errorf("service.DayPlanService.ListByDay: %w", err)
	}
	plans, err := s.plans.ListByDayID(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.DayPlanService.ListByDay: %w", err)
	}
	if plans == nil {
		return []domain.DayPlan{}, nil
	}
	return plans, nil
}

// Update applies a partial update to an existing plan, including order_index
// rewrites (the only reordering mechanism). Absent fields keep their stored
// values, so a reorder-only patch does not blank the rest of the record.
func (s *DayPlanService) Update(ctx context.Context, tripID, dayID, planID uuid.UUID, upd domain.DayPlanUpdate) (domain.DayPlan, error) {
	if err := s.ownedDay(ctx, tripID, dayID); err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.Update: %w", err)
	}
	current, err := s.plans.GetByID(ctx, dayID, planID)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.Update: %w", err)
	}

	merged := applyPlanUpdate(current, upd)
	if err := validatePlan(merged); err != nil {
		return domain.DayPlan{}, err
	}
	result, err := s.plans.Update(ctx, merged)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.DayPlanService.Update: %w", err)
	}
	return result, nil
}

// applyPlanUpdate merges the non-nil fields of upd onto current.
func applyPlanUpdate(current domain.DayPlan, upd domain.DayPlanUpdate) domain.DayPlan {
	if upd.OrderIndex != nil {
		current.OrderIndex = *upd.OrderIndex
	}
	if upd.PlaceName != nil {
		current.PlaceName = *upd.PlaceName
	}
	if upd.Location != nil {
		current.Location = *upd.Location
	}
	if upd.ScheduledAt != nil {
		current.ScheduledAt = upd.ScheduledAt
	}
	if upd.DurationMinutes != nil {
		current.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Category != nil {
		current.Category = *upd.Category
	}
	if upd.Notes != nil {
		current.Notes = *upd.Notes
	}
	return current
}

// Delete removes a plan by ID, scoped to its day, after the ownership chain
// checks out.
func (s *DayPlanService) Delete(ctx context.Context, tripID, dayID, planID uuid.UUID) error {
	if err := s.ownedDay(ctx, tripID, dayID); err != nil {
		return fmt.Errorf("service.DayPlanService.Delete: %w", err)
	}
	if err := s.plans.Delete(ctx, dayID, planID); err != nil {
		return fmt.Errorf("service.DayPlanService.Delete: %w", err)
	}
	return nil
}

// ownedDay walks the ownership chain for mutations: the day must exist under
// the trip and the trip must belong to the caller.
func (s *DayPlanService) ownedDay(ctx context.Context, tripID, dayID uuid.UUID) error {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return err
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.UserID != ident.UserID {
		return domain.ErrUnauthorized
	}
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return err
	}
	return nil
}

// visibleDay applies the read rule: owner or public trip; the day must exist
// under the trip.
func (s *DayPlanService) visibleDay(ctx context.Context, tripID, dayID uuid.UUID) error {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return err
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.UserID != ident.UserID && !trip.IsPublic {
		return domain.ErrNotFound
	}
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return err
	}
	return nil
}

// validatePlan enforces business rules common to Create and Update.
//   - PlaceName must be non-empty (whitespace-only names are rejected).
//   - DurationMinutes must not be negative.
func validatePlan(plan domain.DayPlan) error {
	if strings.TrimSpace(plan.PlaceName) == "" {
		return fmt.Errorf("%w: place_name is required", domain.ErrValidation)
	}
	if plan.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration_minutes must not be negative", domain.ErrValidation)
	}
	return nil
}
