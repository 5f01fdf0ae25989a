package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// dayJSON is the wire shape of a day.
type dayJSON struct {
	ID        uuid.UUID          `json:"id"`
	TripID    uuid.UUID          `json:"trip_id"`
	DayNumber int                `json:"day_number"`
	Date      openapi_types.Date `json:"date"`
	Title     string             `json:"title,omitempty"`
	Theme     string             `json:"theme,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// dayWithPlansJSON is a day plus its ordered plans, as served by
// ?expand=plans and the realtime stream.
type dayWithPlansJSON struct {
	dayJSON
	Plans []planJSON `json:"plans"`
}

// listDays handles GET /trips/{tripID}/days.
// Days are returned in day_number order. With ?expand=plans each day carries
// its plans nested in order_index order — the view the detail, plans, and map
// pages consume.
func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	if r.URL.Query().Get("expand") == "plans" {
		view, err := s.days.ListWithPlans(r.Context(), tripID)
		if err != nil {
			respondDomainError(w, s.log, err, "trip not found")
			return
		}
		respondJSON(w, http.StatusOK, viewToJSON(view))
		return
	}

	days, err := s.days.ListByTrip(r.Context(), tripID)
	if err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, daysToJSON(days))
}

func dayToJSON(d domain.Day) dayJSON {
	return dayJSON{
		ID:        d.ID,
		TripID:    d.TripID,
		DayNumber: d.DayNumber,
		Date:      openapi_types.Date{Time: d.Date},
		Title:     d.Title,
		Theme:     d.Theme,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func daysToJSON(days []domain.Day) []dayJSON {
	out := make([]dayJSON, len(days))
	for i, d := range days {
		out[i] = dayToJSON(d)
	}
	return out
}

func viewToJSON(view []domain.DayWithPlans) []dayWithPlansJSON {
	out := make([]dayWithPlansJSON, len(view))
	for i, dwp := range view {
		plans := make([]planJSON, len(dwp.Plans))
		for j, p := range dwp.Plans {
			plans[j] = planToJSON(p)
		}
		out[i] = dayWithPlansJSON{dayJSON: dayToJSON(dwp.Day), Plans: plans}
	}
	return out
}
