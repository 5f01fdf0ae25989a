package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// planJSON is the wire shape of a day plan.
type planJSON struct {
	ID              uuid.UUID  `json:"id"`
	DayID           uuid.UUID  `json:"day_id"`
	OrderIndex      int        `json:"order_index"`
	PlaceName       string     `json:"place_name"`
	Location        string     `json:"location,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	Category        string     `json:"category,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type planRequest struct {
	OrderIndex      int        `json:"order_index"`
	PlaceName       string     `json:"place_name"`
	Location        string     `json:"location"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Category        string     `json:"category"`
	Notes           string     `json:"notes"`
}

// updatePlanRequest is the partial-update body: nil pointers leave the stored
// field unchanged, so a reorder can send order_index alone.
type updatePlanRequest struct {
	OrderIndex      *int       `json:"order_index"`
	PlaceName       *string    `json:"place_name"`
	Location        *string    `json:"location"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	Category        *string    `json:"category"`
	Notes           *string    `json:"notes"`
}

// createPlan handles POST /trips/{tripID}/days/{dayID}/plans.
func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := planPath(w, r)
	if !ok {
		return
	}

	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.plans.Create(r.Context(), tripID, planFromRequest(dayID, req))
	if err != nil {
		respondDomainError(w, s.log, err, "day not found")
		return
	}
	respondJSON(w, http.StatusCreated, planToJSON(created))
}

// listPlans handles GET /trips/{tripID}/days/{dayID}/plans.
// Plans come back in order_index order; equal indexes keep creation order.
func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := planPath(w, r)
	if !ok {
		return
	}

	plans, err := s.plans.ListByDay(r.Context(), tripID, dayID)
	if err != nil {
		respondDomainError(w, s.log, err, "day not found")
		return
	}

	out := make([]planJSON, len(plans))
	for i, p := range plans {
		out[i] = planToJSON(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// updatePlan handles PATCH /trips/{tripID}/days/{dayID}/plans/{planID}.
// Absent fields keep their stored values; reordering is just an order_index
// rewrite through this endpoint.
func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := planPath(w, r)
	if !ok {
		return
	}
	planID, ok := pathUUID(w, r, "planID")
	if !ok {
		return
	}

	var req updatePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	upd := domain.DayPlanUpdate{
		OrderIndex:      req.OrderIndex,
		PlaceName:       req.PlaceName,
		Location:        req.Location,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		Notes:           req.Notes,
	}

	updated, err := s.plans.Update(r.Context(), tripID, dayID, planID, upd)
	if err != nil {
		respondDomainError(w, s.log, err, "plan not found")
		return
	}
	respondJSON(w, http.StatusOK, planToJSON(updated))
}

// deletePlan handles DELETE /trips/{tripID}/days/{dayID}/plans/{planID}.
func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := planPath(w, r)
	if !ok {
		return
	}
	planID, ok := pathUUID(w, r, "planID")
	if !ok {
		return
	}

	if err := s.plans.Delete(r.Context(), tripID, dayID, planID); err != nil {
		respondDomainError(w, s.log, err, "plan not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// planPath parses the tripID and dayID URL parameters.
func planPath(w http.ResponseWriter, r *http.Request) (tripID, dayID uuid.UUID, ok bool) {
	tripID, ok = pathUUID(w, r, "tripID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	dayID, ok = pathUUID(w, r, "dayID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return tripID, dayID, true
}

func planFromRequest(dayID uuid.UUID, req planRequest) domain.DayPlan {
	return domain.DayPlan{
		DayID:           dayID,
		OrderIndex:      req.OrderIndex,
		PlaceName:       req.PlaceName,
		Location:        req.Location,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		Notes:           req.Notes,
	}
}

func planToJSON(p domain.DayPlan) planJSON {
	return planJSON{
		ID:              p.ID,
		DayID:           p.DayID,
		OrderIndex:      p.OrderIndex,
		PlaceName:       p.PlaceName,
		Location:        p.Location,
		ScheduledAt:     p.ScheduledAt,
		DurationMinutes: p.DurationMinutes,
		Category:        p.Category,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
