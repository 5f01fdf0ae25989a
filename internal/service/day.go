package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
)

// GenerateDays derives the day sequence for a trip's inclusive date range:
// one Day per calendar date from start to end, numbered 1..N, titled
// "Day {n}" with an empty theme. Inputs are truncated to their calendar date;
// no time-zone normalization is performed. Returns nil when end precedes
// start — callers are expected to have validated the range already.
func GenerateDays(tripID uuid.UUID, start, end time.Time) []domain.Day {
	start = atMidnight(start)
	end = atMidnight(end)
	if end.Before(start) {
		return nil
	}

	n := int(end.Sub(start)/(24*time.Hour)) + 1
	days := make([]domain.Day, n)
	for i := range days {
		days[i] = domain.Day{
			TripID:    tripID,
			DayNumber: i + 1,
			Date:      start.AddDate(0, 0, i),
			Title:     fmt.Sprintf("Day %d", i+1),
		}
	}
	return days
}

// atMidnight drops the time component, keeping the calendar date in UTC.
func atMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayService implements read operations for Days and the nested
// days-with-plans view. Days have no user-facing write path: the batch at
// trip creation is driven by TripService.
type DayService struct {
	trips repo.TripRepo
	days  repo.DayRepo
	plans repo.DayPlanRepo
}

// NewDayService constructs a DayService backed by the provided repos.
func NewDayService(trips repo.TripRepo, days repo.DayRepo, plans repo.DayPlanRepo) *DayService {
	return &DayService{trips: trips, days: days, plans: plans}
}

// ListByTrip returns the trip's days ordered by day_number ascending.
// The caller must be authenticated and the trip visible to them.
func (s *DayService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	if _, err := s.visibleTrip(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.DayService.ListByTrip: %w", err)
	}
	days, err := s.days.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DayService.ListByTrip: %w", err)
	}
	if days == nil {
		return []domain.Day{}, nil
	}
	return days, nil
}

// ListWithPlans returns the trip's days with their plans nested, days in
// day_number order and plans in order_index order (stable). This is the view
// the realtime refresher re-fetches on every change signal.
func (s *DayService) ListWithPlans(ctx context.Context, tripID uuid.UUID) ([]domain.DayWithPlans, error) {
	if _, err := s.visibleTrip(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.DayService.ListWithPlans: %w", err)
	}

	days, err := s.days.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DayService.ListWithPlans: %w", err)
	}
	plans, err := s.plans.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DayService.ListWithPlans: %w", err)
	}

	byDay := make(map[uuid.UUID][]domain.DayPlan, len(days))
	for _, p := range plans {
		byDay[p.DayID] = append(byDay[p.DayID], p)
	}

	out := make([]domain.DayWithPlans, len(days))
	for i, d := range days {
		ps := byDay[d.ID]
		if ps == nil {
			ps = []domain.DayPlan{}
		}
		out[i] = domain.DayWithPlans{Day: d, Plans: ps}
	}
	return out, nil
}

// visibleTrip loads the trip and applies the read-visibility rule: owners see
// their own trips, everyone sees public ones, and private trips of other
// users read as absent rather than forbidden.
func (s *DayService) visibleTrip(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return domain.Trip{}, err
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.UserID != ident.UserID && !trip.IsPublic {
		return domain.Trip{}, domain.ErrNotFound
	}
	return trip, nil
}
