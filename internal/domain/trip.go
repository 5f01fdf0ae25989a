// Package domain contains the core data types for the Tripdesk API.
// This package has no dependencies beyond uuid and is imported by every
// other internal package (repo, service, handler, realtime).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	StatusPlanning  TripStatus = "planning"
	StatusActive    TripStatus = "active"
	StatusCompleted TripStatus = "completed"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Trip represents a user's travel plan spanning an inclusive date range.
// A trip is the top-level aggregate; days belong to a trip and plans belong
// to days. StartDate and EndDate are calendar dates (no time component);
// StartDate <= EndDate is validated before any write.
type Trip struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Destination   string
	StartDate     time.Time
	EndDate       time.Time
	Status        TripStatus
	IsPublic      bool
	Description   string
	CoverImageURL string
	Metadata      map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TripUpdate carries the mutable fields of a partial trip update.
// Nil pointers mean "leave unchanged". The date range and owner are not
// updatable through this path: days are generated from the range at creation
// and changing it afterwards would orphan them.
type TripUpdate struct {
	Title         *string
	Destination   *string
	Status        *TripStatus
	IsPublic      *bool
	Description   *string
	CoverImageURL *string
	Metadata      map[string]any
}
