package domain

import (
	"time"

	"github.com/google/uuid"
)

// BagType classifies a bag or bag template.
type BagType string

const (
	BagTypeCarryOn  BagType = "carry_on"
	BagTypeChecked  BagType = "checked"
	BagTypePersonal BagType = "personal"
	BagTypeCustom   BagType = "custom"
)

// Valid reports whether t is one of the known bag types.
func (t BagType) Valid() bool {
	switch t {
	case BagTypeCarryOn, BagTypeChecked, BagTypePersonal, BagTypeCustom:
		return true
	}
	return false
}

// Bag is a piece of luggage belonging to exactly one trip; it is deleted
// with the trip. Identity for merge-import matching is Name, compared
// case-insensitively within the trip.
type Bag struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Name      string    `json:"name"`
	Type      BagType   `json:"type"`
	Color     string    `json:"color,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BagTemplate is an owner-level blueprint for creating bags on new trips.
type BagTemplate struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	Type      BagType   `json:"type"`
	Color     string    `json:"color,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
