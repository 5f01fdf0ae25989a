package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// tripJSON is the wire shape of a trip. Calendar dates serialize as
// "2006-01-02" via the openapi date type.
type tripJSON struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Title         string             `json:"title"`
	Destination   string             `json:"destination,omitempty"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	Status        string             `json:"status"`
	IsPublic      bool               `json:"is_public"`
	Description   string             `json:"description,omitempty"`
	CoverImageURL string             `json:"cover_image_url,omitempty"`
	Metadata      map[string]any     `json:"metadata,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type createTripRequest struct {
	Title         string              `json:"title"`
	Destination   string              `json:"destination"`
	StartDate     *openapi_types.Date `json:"start_date"`
	EndDate       *openapi_types.Date `json:"end_date"`
	Status        string              `json:"status"`
	IsPublic      bool                `json:"is_public"`
	Description   string              `json:"description"`
	CoverImageURL string              `json:"cover_image_url"`
	Metadata      map[string]any      `json:"metadata"`
}

type updateTripRequest struct {
	Title         *string        `json:"title"`
	Destination   *string        `json:"destination"`
	Status        *string        `json:"status"`
	IsPublic      *bool          `json:"is_public"`
	Description   *string        `json:"description"`
	CoverImageURL *string        `json:"cover_image_url"`
	Metadata      map[string]any `json:"metadata"`
}

type paginationJSON struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// createTrip handles POST /trips.
// On success the generated day sequence is included; if the trip row was
// committed but day generation failed, the trip is still returned with a
// warning — the primary write is never rolled back for a secondary failure.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	if req.StartDate == nil || req.EndDate == nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "start_date and end_date are required")
		return
	}

	trip := domain.Trip{
		Title:         req.Title,
		Destination:   req.Destination,
		StartDate:     req.StartDate.Time,
		EndDate:       req.EndDate.Time,
		Status:        domain.TripStatus(req.Status),
		IsPublic:      req.IsPublic,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		Metadata:      req.Metadata,
	}

	result, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}

	resp := struct {
		Trip     tripJSON  `json:"trip"`
		Days     []dayJSON `json:"days"`
		Warnings []string  `json:"warnings,omitempty"`
	}{
		Trip: tripToJSON(result.Trip),
		Days: daysToJSON(result.Days),
	}
	if result.DaysErr != nil {
		resp.Warnings = append(resp.Warnings,
			"day generation failed; the trip was created without its day sequence")
	}
	respondJSON(w, http.StatusCreated, resp)
}

// listTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}

	data := make([]tripJSON, len(trips))
	for i, t := range trips {
		data[i] = tripToJSON(t)
	}
	respondJSON(w, http.StatusOK, struct {
		Data       []tripJSON     `json:"data"`
		Pagination paginationJSON `json:"pagination"`
	}{
		Data:       data,
		Pagination: paginationJSON{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// getTrip handles GET /trips/{tripID}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, tripToJSON(trip))
}

// updateTrip handles PATCH /trips/{tripID}: a partial update of the mutable
// fields. Ownership is re-verified by the service on every call.
func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req updateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	upd := domain.TripUpdate{
		Title:         req.Title,
		Destination:   req.Destination,
		IsPublic:      req.IsPublic,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		Metadata:      req.Metadata,
	}
	if req.Status != nil {
		status := domain.TripStatus(*req.Status)
		upd.Status = &status
	}

	updated, err := s.trips.Update(r.Context(), id, upd)
	if err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, tripToJSON(updated))
}

// deleteTrip handles DELETE /trips/{tripID}. Days and plans cascade.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ----------------------------------------------------------------

func tripToJSON(t domain.Trip) tripJSON {
	return tripJSON{
		ID:            t.ID,
		UserID:        t.UserID,
		Title:         t.Title,
		Destination:   t.Destination,
		StartDate:     openapi_types.Date{Time: t.StartDate},
		EndDate:       openapi_types.Date{Time: t.EndDate},
		Status:        string(t.Status),
		IsPublic:      t.IsPublic,
		Description:   t.Description,
		CoverImageURL: t.CoverImageURL,
		Metadata:      t.Metadata,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields and
// trailing garbage.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("malformed request body: " + err.Error())
	}
	return nil
}

// pathUUID parses the named chi URL parameter as a UUID, writing a 404 and
// returning false on failure (a malformed ID can never name a resource).
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", name+" is not a valid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, returning nil when
// absent or malformed.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
