package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// exportCSVHeaders defines the column names written as the first row of any
// CSV export.
var exportCSVHeaders = []string{
	"day_number", "date", "day_title", "theme",
	"place_name", "location", "scheduled_at", "duration_minutes",
	"category", "notes",
}

// exportRowJSON is the wire shape of one flat itinerary row.
type exportRowJSON struct {
	DayNumber       int                `json:"day_number"`
	Date            openapi_types.Date `json:"date"`
	DayTitle        string             `json:"day_title,omitempty"`
	Theme           string             `json:"theme,omitempty"`
	PlaceName       string             `json:"place_name,omitempty"`
	Location        string             `json:"location,omitempty"`
	ScheduledAt     *time.Time         `json:"scheduled_at,omitempty"`
	DurationMinutes int                `json:"duration_minutes,omitempty"`
	Category        string             `json:"category,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// exportTrip handles GET /trips/{tripID}/export.
// It returns the trip's full itinerary as a flat table, one row per plan,
// with day fields repeated. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) exportTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	rows, err := s.export.Export(r.Context(), tripID)
	if err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSVExport(w, rows)
		return
	}
	respondJSON(w, http.StatusOK, exportRowsToJSON(rows))
}

func exportRowsToJSON(rows []domain.ExportRow) []exportRowJSON {
	out := make([]exportRowJSON, len(rows))
	for i, r := range rows {
		out[i] = exportRowJSON{
			DayNumber:       r.DayNumber,
			Date:            mustParseDate(r.DayDate),
			DayTitle:        r.DayTitle,
			Theme:           r.DayTheme,
			PlaceName:       r.PlaceName,
			Location:        r.Location,
			ScheduledAt:     r.ScheduledAt,
			DurationMinutes: r.DurationMinutes,
			Category:        r.Category,
			Notes:           r.Notes,
		}
	}
	return out
}

// writeCSVExport encodes rows as CSV with a header row and serves the result
// as a file attachment.
func writeCSVExport(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — writes to bytes.Buffer never fail.
	cw.Write(exportCSVHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(exportRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A nil scheduled time and a zero duration are encoded as empty strings.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	duration := ""
	if r.DurationMinutes != 0 {
		duration = strconv.Itoa(r.DurationMinutes)
	}
	return []string{
		strconv.Itoa(r.DayNumber),
		r.DayDate,
		r.DayTitle,
		r.DayTheme,
		r.PlaceName,
		r.Location,
		formatOptionalTime(r.ScheduledAt),
		duration,
		r.Category,
		r.Notes,
	}
}

// mustParseDate parses a "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated
// dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
