package domain

import (
	"time"

	"github.com/google/uuid"
)

// Day is one calendar date within a trip's range.
// Days are generated as a batch when the trip is created — one per date from
// start_date to end_date inclusive, numbered 1..N with no gaps — and are
// never created individually by user action.
type Day struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	DayNumber int
	Date      time.Time
	Title     string
	Theme     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayWithPlans is the nested view consumed by the detail, plans, and map
// pages: a day together with its plans ordered by order_index.
type DayWithPlans struct {
	Day   Day
	Plans []DayPlan
}
