// Package realtime delivers change notifications from Postgres to per-trip
// refreshers. Writes to travel_days and day_plans fire NOTIFY triggers; a
// dedicated listening connection fans the payloads out through a Hub, and a
// Refresher re-fetches the trip's days-with-plans view on any signal.
package realtime

import "github.com/google/uuid"

// Channel names the triggers notify on. They are LISTENed as a pair.
const (
	DaysChannel  = "travel_days_changes"
	PlansChannel = "day_plans_changes"
)

// Change is one decoded NOTIFY payload: a single row write on one of the
// watched tables.
type Change struct {
	// Table is the source table, "travel_days" or "day_plans".
	Table string `json:"table"`
	// Op is the SQL operation: INSERT, UPDATE, or DELETE.
	Op string `json:"op"`
	// RowID is the affected row's primary key.
	RowID uuid.UUID `json:"id"`
	// TripID is set for travel_days rows only. day_plans carry no trip
	// reference, so their changes cannot be scoped to a trip.
	TripID uuid.UUID `json:"trip_id,omitempty"`
}
