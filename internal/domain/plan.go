package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayPlan is a scheduled activity within a day.
// OrderIndex determines sort position within the day; values need not be
// contiguous, and equal values fall back to creation order (stable).
// ScheduledAt is nil for unscheduled entries.
type DayPlan struct {
	ID              uuid.UUID
	DayID           uuid.UUID
	OrderIndex      int
	PlaceName       string
	Location        string
	ScheduledAt     *time.Time
	DurationMinutes int
	Category        string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DayPlanUpdate carries the mutable fields of a partial plan update.
// Nil pointers mean "leave unchanged", so a reorder can send order_index
// alone. The owning day is not changeable through this path.
type DayPlanUpdate struct {
	OrderIndex      *int
	PlaceName       *string
	Location        *string
	ScheduledAt     *time.Time
	DurationMinutes *int
	Category        *string
	Notes           *string
}
