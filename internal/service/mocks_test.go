package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
)

// Test doubles for the repo interfaces. Set only the method fields a test
// needs; unset methods fail loudly if called.

var errUnexpectedCall = errors.New("unexpected repo call")

type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listVisible  func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error)
	countVisible func(ctx context.Context, userID uuid.UUID) (int64, error)
	update       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if m.create == nil {
		return domain.Trip{}, errUnexpectedCall
	}
	return m.create(ctx, trip)
}

func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	if m.getByID == nil {
		return domain.Trip{}, errUnexpectedCall
	}
	return m.getByID(ctx, id)
}

func (m *mockTripRepo) ListVisible(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error) {
	if m.listVisible == nil {
		return nil, errUnexpectedCall
	}
	return m.listVisible(ctx, userID, p)
}

func (m *mockTripRepo) CountVisible(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.countVisible == nil {
		return 0, errUnexpectedCall
	}
	return m.countVisible(ctx, userID)
}

func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if m.update == nil {
		return domain.Trip{}, errUnexpectedCall
	}
	return m.update(ctx, trip)
}

func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.delete == nil {
		return errUnexpectedCall
	}
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockDayRepo struct {
	createBatch  func(ctx context.Context, days []domain.Day) error
	getByID      func(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error)
}

func (m *mockDayRepo) CreateBatch(ctx context.Context, days []domain.Day) error {
	if m.createBatch == nil {
		return errUnexpectedCall
	}
	return m.createBatch(ctx, days)
}

func (m *mockDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error) {
	if m.getByID == nil {
		return domain.Day{}, errUnexpectedCall
	}
	return m.getByID(ctx, tripID, dayID)
}

func (m *mockDayRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	if m.listByTripID == nil {
		return nil, errUnexpectedCall
	}
	return m.listByTripID(ctx, tripID)
}

var _ repo.DayRepo = (*mockDayRepo)(nil)

type mockDayPlanRepo struct {
	create       func(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error)
	getByID      func(ctx context.Context, dayID, planID uuid.UUID) (domain.DayPlan, error)
	listByDayID  func(ctx context.Context, dayID uuid.UUID) ([]domain.DayPlan, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error)
	update       func(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error)
	delete       func(ctx context.Context, dayID, planID uuid.UUID) error
}

func (m *mockDayPlanRepo) Create(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error) {
	if m.create == nil {
		return domain.DayPlan{}, errUnexpectedCall
	}
	return m.create(ctx, plan)
}

func (m *mockDayPlanRepo) GetByID(ctx context.Context, dayID, planID uuid.UUID) (domain.DayPlan, error) {
	if m.getByID == nil {
		return domain.DayPlan{}, errUnexpectedCall
	}
	return m.getByID(ctx, dayID, planID)
}

func (m *mockDayPlanRepo) ListByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.DayPlan, error) {
	if m.listByDayID == nil {
		return nil, errUnexpectedCall
	}
	return m.listByDayID(ctx, dayID)
}

func (m *mockDayPlanRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DayPlan, error) {
	if m.listByTripID == nil {
		return nil, errUnexpectedCall
	}
	return m.listByTripID(ctx, tripID)
}

func (m *mockDayPlanRepo) Update(ctx context.Context, plan domain.DayPlan) (domain.DayPlan, error) {
	if m.update == nil {
		return domain.DayPlan{}, errUnexpectedCall
	}
	return m.update(ctx, plan)
}

func (m *mockDayPlanRepo) Delete(ctx context.Context, dayID, planID uuid.UUID) error {
	if m.delete == nil {
		return errUnexpectedCall
	}
	return m.delete(ctx, dayID, planID)
}

var _ repo.DayPlanRepo = (*mockDayPlanRepo)(nil)

type mockUserRepo struct {
	create     func(ctx context.Context, user domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.create == nil {
		return domain.User{}, errUnexpectedCall
	}
	return m.create(ctx, user)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.getByEmail == nil {
		return domain.User{}, errUnexpectedCall
	}
	return m.getByEmail(ctx, email)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if m.getByID == nil {
		return domain.User{}, errUnexpectedCall
	}
	return m.getByID(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockSessionRepo struct {
	createSession   func(ctx context.Context, s domain.Session) (domain.Session, error)
	getSession      func(ctx context.Context, token string) (domain.Session, error)
	deleteSession   func(ctx context.Context, token string) error
	createAuthCode  func(ctx context.Context, c domain.AuthCode) (domain.AuthCode, error)
	consumeAuthCode func(ctx context.Context, code string) (uuid.UUID, error)
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, s domain.Session) (domain.Session, error) {
	if m.createSession == nil {
		return domain.Session{}, errUnexpectedCall
	}
	return m.createSession(ctx, s)
}

func (m *mockSessionRepo) GetSession(ctx context.Context, token string) (domain.Session, error) {
	if m.getSession == nil {
		return domain.Session{}, errUnexpectedCall
	}
	return m.getSession(ctx, token)
}

func (m *mockSessionRepo) DeleteSession(ctx context.Context, token string) error {
	if m.deleteSession == nil {
		return errUnexpectedCall
	}
	return m.deleteSession(ctx, token)
}

func (m *mockSessionRepo) CreateAuthCode(ctx context.Context, c domain.AuthCode) (domain.AuthCode, error) {
	if m.createAuthCode == nil {
		return domain.AuthCode{}, errUnexpectedCall
	}
	return m.createAuthCode(ctx, c)
}

func (m *mockSessionRepo) ConsumeAuthCode(ctx context.Context, code string) (uuid.UUID, error) {
	if m.consumeAuthCode == nil {
		return uuid.Nil, errUnexpectedCall
	}
	return m.consumeAuthCode(ctx, code)
}

var _ repo.SessionRepo = (*mockSessionRepo)(nil)

// ownedTripFixture returns a private trip owned by the given user with a
// three-day range. Callers override fields as needed.
func ownedTripFixture(owner uuid.UUID) domain.Trip {
	start := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:        uuid.New(),
		UserID:    owner,
		Title:     "Kyoto in Autumn",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Status:    domain.StatusPlanning,
	}
}
