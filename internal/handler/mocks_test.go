package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/handler"
	"github.com/mpreston/tripdesk/backend/internal/realtime"
	"github.com/mpreston/tripdesk/backend/internal/service"
)

// Test doubles for the servicer interfaces. Set only the method fields your
// test needs; an unset field panics, which fails the test loudly.

type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (service.CreateTripResult, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (service.CreateTripResult, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, id, upd)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockDayServicer struct {
	listByTrip    func(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error)
	listWithPlans func(ctx context.Context, tripID uuid.UUID) ([]domain.DayWithPlans, error)
}

func (m *mockDayServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockDayServicer) ListWithPlans(ctx context.Context, tripID uuid.UUID) ([]domain.DayWithPlans, error) {
	return m.listWithPlans(ctx, tripID)
}

var _ handler.DayServicer = (*mockDayServicer)(nil)

type mockDayPlanServicer struct {
	create    func(ctx context.Context, tripID uuid.UUID, plan domain.DayPlan) (domain.DayPlan, error)
	listByDay func(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.DayPlan, error)
	update    func(ctx context.Context, tripID, dayID, planID uuid.UUID, upd domain.DayPlanUpdate) (domain.DayPlan, error)
	delete    func(ctx context.Context, tripID, dayID, planID uuid.UUID) error
}

func (m *mockDayPlanServicer) Create(ctx context.Context, tripID uuid.UUID, plan domain.DayPlan) (domain.DayPlan, error) {
	return m.create(ctx, tripID, plan)
}
func (m *mockDayPlanServicer) ListByDay(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.DayPlan, error) {
	return m.listByDay(ctx, tripID, dayID)
}
func (m *mockDayPlanServicer) Update(ctx context.Context, tripID, dayID, planID uuid.UUID, upd domain.DayPlanUpdate) (domain.DayPlan, error) {
	return m.update(ctx, tripID, dayID, planID, upd)
}
func (m *mockDayPlanServicer) Delete(ctx context.Context, tripID, dayID, planID uuid.UUID) error {
	return m.delete(ctx, tripID, dayID, planID)
}

var _ handler.DayPlanServicer = (*mockDayPlanServicer)(nil)

type mockAuthServicer struct {
	signUp    func(ctx context.Context, email, password, displayName string) (domain.User, domain.Session, error)
	signIn    func(ctx context.Context, email, password string) (domain.Session, error)
	issueCode func(ctx context.Context) (domain.AuthCode, error)
	exchange  func(ctx context.Context, code string) (domain.Session, error)
	logout    func(ctx context.Context, token string) error
}

func (m *mockAuthServicer) SignUp(ctx context.Context, email, password, displayName string) (domain.User, domain.Session, error) {
	return m.signUp(ctx, email, password, displayName)
}
func (m *mockAuthServicer) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	return m.signIn(ctx, email, password)
}
func (m *mockAuthServicer) IssueCode(ctx context.Context) (domain.AuthCode, error) {
	return m.issueCode(ctx)
}
func (m *mockAuthServicer) Exchange(ctx context.Context, code string) (domain.Session, error) {
	return m.exchange(ctx, code)
}
func (m *mockAuthServicer) Logout(ctx context.Context, token string) error {
	return m.logout(ctx, token)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, tripID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// serverDeps bundles the doubles a test wants to install; nil fields stay nil
// on the Server, matching how partial wiring behaves in production.
type serverDeps struct {
	trips  handler.TripServicer
	days   handler.DayServicer
	plans  handler.DayPlanServicer
	auth   handler.AuthServicer
	export handler.ExportServicer
	hub    *realtime.Hub
}

// newTestRouter wires a Server with the given doubles and mounts the full
// route tree, mirroring main.go.
func newTestRouter(d serverDeps) http.Handler {
	return handler.NewServer(d.trips, d.days, d.plans, d.auth, d.export, d.hub, nil).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func dateStr(t time.Time) string {
	return t.Format("2006-01-02")
}

// decodeBody decodes the recorded response into v.
func decodeBody(t *testing.T, body *bytes.Buffer, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

// wireTrip is the response shape asserted by trip tests.
type wireTrip struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Title     string         `json:"title"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Status    string         `json:"status"`
	IsPublic  bool           `json:"is_public"`
	Metadata  map[string]any `json:"metadata"`
}

type wireError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func wireTripFixture() domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "Kyoto in Autumn",
		StartDate: time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC),
		Status:    domain.StatusPlanning,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
