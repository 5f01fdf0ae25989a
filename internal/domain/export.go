package domain

import "time"

// ExportRow is a single row in a trip's itinerary export.
// It is a flat, denormalized view: one row per plan, with day fields repeated
// for every plan on that day. Days with no plans yield one row with zero
// values for all plan fields.
type ExportRow struct {
	// Day fields — repeated for every plan on the day.
	DayNumber int
	DayDate   string // "2006-01-02" formatted date
	DayTitle  string
	DayTheme  string

	// Plan fields — zero values when the day has no plans.
	PlaceName       string
	Location        string
	ScheduledAt     *time.Time
	DurationMinutes int
	Category        string
	Notes           string
}
