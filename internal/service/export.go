package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
)

// ExportService assembles the flat itinerary export for a single trip.
type ExportService struct {
	trips repo.TripRepo
	days  repo.DayRepo
	plans repo.DayPlanRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, days repo.DayRepo, plans repo.DayPlanRepo) *ExportService {
	return &ExportService{trips: trips, days: days, plans: plans}
}

// Export returns one ExportRow per plan across the trip's days, days in
// day_number order and plans in order_index order. Days with no plans
// contribute one row with empty plan fields. Visibility follows the trip
// read rule: private trips of other users read as absent.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if trip.UserID != ident.UserID && !trip.IsPublic {
		return nil, fmt.Errorf("service.ExportService.Export: %w", domain.ErrNotFound)
	}

	days, err := s.days.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	plans, err := s.plans.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	byDay := make(map[uuid.UUID][]domain.DayPlan, len(days))
	for _, p := range plans {
		byDay[p.DayID] = append(byDay[p.DayID], p)
	}

	rows := make([]domain.ExportRow, 0, len(plans))
	for _, d := range days {
		ps := byDay[d.ID]
		if len(ps) == 0 {
			rows = append(rows, exportRow(d, domain.DayPlan{}))
			continue
		}
		for _, p := range ps {
			rows = append(rows, exportRow(d, p))
		}
	}
	return rows, nil
}

func exportRow(d domain.Day, p domain.DayPlan) domain.ExportRow {
	return domain.ExportRow{
		DayNumber:       d.DayNumber,
		DayDate:         d.Date.Format("2006-01-02"),
		DayTitle:        d.Title,
		DayTheme:        d.Theme,
		PlaceName:       p.PlaceName,
		Location:        p.Location,
		ScheduledAt:     p.ScheduledAt,
		DurationMinutes: p.DurationMinutes,
		Category:        p.Category,
		Notes:           p.Notes,
	}
}
