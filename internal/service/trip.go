package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
)

// CreateTripResult is the outcome of TripService.Create.
// DaysErr is non-nil when the trip row was committed but the day batch could
// not be written — a deliberately non-fatal condition surfaced as a warning,
// never rolled back.
type CreateTripResult struct {
	Trip    domain.Trip
	Days    []domain.Day
	DaysErr error
}

// TripService implements the gateway operations for Trips.
// Every operation resolves the caller's identity first; mutations then verify
// ownership against the stored record before touching it.
type TripService struct {
	trips repo.TripRepo
	days  repo.DayRepo
	log   *slog.Logger
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, days repo.DayRepo, log *slog.Logger) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{trips: trips, days: days, log: log}
}

// Create validates and persists a new trip, then generates and batch-inserts
// its day sequence. Validation (including end_date >= start_date) runs before
// any write. A day-batch failure after the trip row is committed does not
// undo the trip: it is logged and reported via CreateTripResult.DaysErr.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (CreateTripResult, error) {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return CreateTripResult{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip.UserID = ident.UserID
	if trip.Status == "" {
		trip.Status = domain.StatusPlanning
	}
	if err := validateTrip(trip); err != nil {
		return CreateTripResult{}, err
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return CreateTripResult{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	days := GenerateDays(created.ID, created.StartDate, created.EndDate)
	if err := s.days.CreateBatch(ctx, days); err != nil {
		// The trip is already committed; surface the batch failure as a
		// warning rather than failing the whole operation.
		s.log.WarnContext(ctx, "day generation failed after trip creation",
			"trip_id", created.ID, "error", err)
		return CreateTripResult{Trip: created, DaysErr: err}, nil
	}

	return CreateTripResult{Trip: created, Days: days}, nil
}

// GetByID returns a single trip by ID. Private trips of other users read as
// absent (domain.ErrNotFound), not forbidden, to avoid leaking existence.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	if trip.UserID != ident.UserID && !trip.IsPublic {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// ListPaged returns trips visible to the caller (own plus public) with the
// total count for pagination.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	trips, err := s.trips.ListVisible(ctx, ident.UserID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	total, err := s.trips.CountVisible(ctx, ident.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update applies a partial update to an existing trip.
// The caller must own the trip; ownership is re-verified against the stored
// record on every call, and a mismatch leaves the record untouched.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	current, err := s.ownedTrip(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	merged := applyUpdate(current, upd)
	if err := validateTrip(merged); err != nil {
		return domain.Trip{}, err
	}

	updated, err := s.trips.Update(ctx, merged)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip the caller owns. Days and plans cascade in the store.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ownedTrip(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ownedTrip loads the trip and enforces the mutation ownership rule:
// the current identity must match the stored owner.
func (s *TripService) ownedTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return domain.Trip{}, err
	}
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.UserID != ident.UserID {
		return domain.Trip{}, domain.ErrUnauthorized
	}
	return trip, nil
}

// applyUpdate merges the non-nil fields of upd onto current.
func applyUpdate(current domain.Trip, upd domain.TripUpdate) domain.Trip {
	if upd.Title != nil {
		current.Title = *upd.Title
	}
	if upd.Destination != nil {
		current.Destination = *upd.Destination
	}
	if upd.Status != nil {
		current.Status = *upd.Status
	}
	if upd.IsPublic != nil {
		current.IsPublic = *upd.IsPublic
	}
	if upd.Description != nil {
		current.Description = *upd.Description
	}
	if upd.CoverImageURL != nil {
		current.CoverImageURL = *upd.CoverImageURL
	}
	if upd.Metadata != nil {
		current.Metadata = upd.Metadata
	}
	return current
}

// validateTrip enforces business rules common to Create and Update.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Status must be one of the known lifecycle states.
//   - EndDate must not be before StartDate. This runs before any write, so an
//     inverted range never produces a dayless trip.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !trip.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, trip.Status)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
