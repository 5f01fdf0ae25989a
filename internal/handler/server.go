// Package handler implements the HTTP surface of the Tripdesk API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, day.go, plan.go, auth.go, export.go, stream.go) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/realtime"
	"github.com/mpreston/tripdesk/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (service.CreateTripResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DayServicer defines the read operations the day handlers depend on.
type DayServicer interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error)
	ListWithPlans(ctx context.Context, tripID uuid.UUID) ([]domain.DayWithPlans, error)
}

// DayPlanServicer defines the business operations the plan handlers depend on.
type DayPlanServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, plan domain.DayPlan) (domain.DayPlan, error)
	ListByDay(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.DayPlan, error)
	Update(ctx context.Context, tripID, dayID, planID uuid.UUID, upd domain.DayPlanUpdate) (domain.DayPlan, error)
	Delete(ctx context.Context, tripID, dayID, planID uuid.UUID) error
}

// ExportServicer defines the operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// AuthServicer defines the operations the auth handlers depend on.
type AuthServicer interface {
	SignUp(ctx context.Context, email, password, displayName string) (domain.User, domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	IssueCode(ctx context.Context) (domain.AuthCode, error)
	Exchange(ctx context.Context, code string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	trips  TripServicer
	days   DayServicer
	plans  DayPlanServicer
	auth   AuthServicer
	export ExportServicer
	hub    *realtime.Hub
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// hub may be nil when the realtime stream is not wired (tests).
func NewServer(trips TripServicer, days DayServicer, plans DayPlanServicer, auth AuthServicer, export ExportServicer, hub *realtime.Hub, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, days: days, plans: plans, auth: auth, export: export, hub: hub, log: log}
}

// Routes mounts every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.signUp)
		r.Post("/signin", s.signIn)
		r.Post("/logout", s.logout)
		r.Post("/code", s.issueCode)
		r.Get("/callback", s.authCallback)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.listTrips)
		r.Post("/", s.createTrip)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.getTrip)
			r.Patch("/", s.updateTrip)
			r.Delete("/", s.deleteTrip)
			r.Get("/days", s.listDays)
			r.Get("/export", s.exportTrip)
			r.Get("/stream", s.streamTrip)

			r.Route("/days/{dayID}/plans", func(r chi.Router) {
				r.Get("/", s.listPlans)
				r.Post("/", s.createPlan)
				r.Patch("/{planID}", s.updatePlan)
				r.Delete("/{planID}", s.deletePlan)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "route not found")
	})

	return r
}
