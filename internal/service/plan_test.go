package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/service"
)

func planFixture(dayID uuid.UUID) domain.DayPlan {
	return domain.DayPlan{
		DayID:      dayID,
		OrderIndex: 10,
		PlaceName:  "Fushimi Inari",
		Category:   "sightseeing",
	}
}

func planService(trip domain.Trip, day domain.Day, plans *mockDayPlanRepo) *service.DayPlanService {
	return service.NewDayPlanService(
		&mockTripRepo{getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil }},
		&mockDayRepo{getByID: func(_ context.Context, _, _ uuid.UUID) (domain.Day, error) { return day, nil }},
		plans,
	)
}

func TestDayPlanService_Create(t *testing.T) {
	owner := uuid.New()
	trip := ownedTripFixture(owner)
	day := domain.Day{ID: uuid.New(), TripID: trip.ID, DayNumber: 1, Date: trip.StartDate}
	input := planFixture(day.ID)

	svc := planService(trip, day, &mockDayPlanRepo{
		create: func(_ context.Context, p domain.DayPlan) (domain.DayPlan, error) {
			p.ID = uuid.New()
			return p, nil
		},
	})

	created, err := svc.Create(authedCtx(owner), trip.ID, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, input.PlaceName, created.PlaceName)
}

func TestDayPlanService_Create_NonOwner_Unauthorized(t *testing.T) {
	trip := ownedTripFixture(uuid.New())
	day := domain.Day{ID: uuid.New(), TripID: trip.ID}

	// plans repo has no create set: an Unauthorized result must never insert.
	svc := planService(trip, day, &mockDayPlanRepo{})

	_, err := svc.Create(authedCtx(uuid.New()), trip.ID, planFixture(day.ID))

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDayPlanService_Create_EmptyPlaceName(t *testing.T) {
	owner := uuid.New()
	trip := ownedTripFixture(owner)
	day := domain.Day{ID: uuid.New(), TripID: trip.ID}
	input := planFixture(day.ID)
	input.PlaceName = "  "

	svc := planService(trip, day, &mockDayPlanRepo{})

	_, err := svc.Create(authedCtx(owner), trip.ID, input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDayPlanService_Create_DayNotUnderTrip(t *testing.T) {
	owner := uuid.New()
	trip := ownedTripFixture(owner)

	svc := service.NewDayPlanService(
		&mockTripRepo{getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil }},
		&mockDayRepo{getByID: func(_ context.Context, _, _ uuid.UUID) (domain.Day, error) {
			return domain.Day{}, domain.ErrNotFound
		}},
		&mockDayPlanRepo{},
	)

	_, err := svc.Create(authedCtx(owner), trip.ID, planFixture(uuid.New()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDayPlanService_Update_ReorderKeepsStoredFields(t *testing.T) {
	owner := uuid.New()
	trip := ownedTripFixture(owner)
	day := domain.Day{ID: uuid.New(), TripID: trip.ID}
	stored := planFixture(day.ID)
	stored.ID = uuid.New()
	stored.Notes = "arrive before the crowds"
	index := 5

	svc := planService(trip, day, &mockDayPlanRepo{
		getByID: func(_ context.Context, gotDay, gotPlan uuid.UUID) (domain.DayPlan, error) {
			require.Equal(t, day.ID, gotDay)
			require.Equal(t, stored.ID, gotPlan)
			return stored, nil
		},
		update: func(_ context.Context, merged domain.DayPlan) (domain.DayPlan, error) {
			assert.Equal(t, 5, merged.OrderIndex)
			assert.Equal(t, stored.PlaceName, merged.PlaceName, "unset fields stay as stored")
			assert.Equal(t, stored.Notes, merged.Notes)
			return merged, nil
		},
	})

	updated, err := svc.Update(authedCtx(owner), trip.ID, day.ID, stored.ID,
		domain.DayPlanUpdate{OrderIndex: &index})

	require.NoError(t, err)
	assert.Equal(t, 5, updated.OrderIndex)
	assert.Equal(t, stored.PlaceName, updated.PlaceName)
}

func TestDayPlanService_Update_NegativeDuration(t *testing.T) {
	owner := uuid.New()
	trip := ownedTripFixture(owner)
	day := domain.Day{ID: uuid.New(), TripID: trip.ID}
	stored := planFixture(day.ID)
	stored.ID = uuid.New()
	duration := -30

	svc := planService(trip, day, &mockDayPlanRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.DayPlan, error) { return stored, nil },
	})

	_, err := svc.Update(authedCtx(owner), trip.ID, day.ID, stored.ID,
		domain.DayPlanUpdate{DurationMinutes: &duration})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDayPlanService_Update_MissingPlan(t *testing.T) {
	owner := uuid.New()
	trip := ownedTripFixture(owner)
	day := domain.Day{ID: uuid.New(), TripID: trip.ID}

	svc := planService(trip, day, &mockDayPlanRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.DayPlan, error) {
			return domain.DayPlan{}, domain.ErrNotFound
		},
	})

	_, err := svc.Update(authedCtx(owner), trip.ID, day.ID, uuid.New(), domain.DayPlanUpdate{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDayPlanService_ListByDay_PublicTripReadable(t *testing.T) {
	trip := ownedTripFixture(uuid.New())
	trip.IsPublic = true
	day := domain.Day{ID: uuid.New(), TripID: trip.ID}

	svc := planService(trip, day, &mockDayPlanRepo{
		listByDayID: func(_ context.Context, _ uuid.UUID) ([]domain.DayPlan, error) { return nil, nil },
	})

	plans, err := svc.ListByDay(authedCtx(uuid.New()), trip.ID, day.ID)

	require.NoError(t, err)
	assert.NotNil(t, plans, "always a non-nil slice so callers can range")
	assert.Empty(t, plans)
}

func TestDayPlanService_Delete_NonOwner_Unauthorized(t *testing.T) {
	trip := ownedTripFixture(uuid.New())
	day := domain.Day{ID: uuid.New(), TripID: trip.ID}

	svc := planService(trip, day, &mockDayPlanRepo{})

	err := svc.Delete(authedCtx(uuid.New()), trip.ID, day.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDayPlanService_Unauthenticated(t *testing.T) {
	svc := service.NewDayPlanService(&mockTripRepo{}, &mockDayRepo{}, &mockDayPlanRepo{})

	_, err := svc.ListByDay(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
