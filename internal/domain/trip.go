// Package domain contains the core data types for the Packzen backend.
// This package has zero external dependencies beyond uuid and is imported
// by every other internal package (repo, service, handler, backup).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a single packing trip. A trip is the top-level aggregate;
// bags and trip items belong to a trip and are removed with it.
//
// StartDate and EndDate are calendar dates (no time component) and either
// may be nil. Identity for merge-import matching is Name, compared
// case-insensitively within an owner.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     string     `json:"-"`
	Name        string     `json:"name"`
	Destination string     `json:"destination,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NormalizeDates swaps StartDate and EndDate when both are set and the start
// falls after the end. Out-of-order dates are repaired, not rejected.
func (t *Trip) NormalizeDates() {
	if t.StartDate != nil && t.EndDate != nil && t.StartDate.After(*t.EndDate) {
		t.StartDate, t.EndDate = t.EndDate, t.StartDate
	}
}
