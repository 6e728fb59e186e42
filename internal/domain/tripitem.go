package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripItem is a single line on a trip's packing list.
//
// BagID is nil for unassigned items and is nulled when the bag is deleted.
// ContainerItemID points at a sibling TripItem flagged IsContainer when this
// item is packed inside another item (e.g. socks inside a packing cube).
// Containers are exactly one level deep: an item flagged IsContainer can
// never itself carry a container reference, and an item can never reference
// itself. Both rules are enforced at write time by the service layer.
//
// CategoryName is denormalized from the master catalog so the packing list
// survives catalog edits and travels intact through backup documents.
type TripItem struct {
	ID              uuid.UUID  `json:"id"`
	TripID          uuid.UUID  `json:"trip_id"`
	BagID           *uuid.UUID `json:"bag_id,omitempty"`
	ContainerItemID *uuid.UUID `json:"container_item_id,omitempty"`
	Name            string     `json:"name"`
	CategoryName    string     `json:"category_name,omitempty"`
	Quantity        int        `json:"quantity"`
	IsPacked        bool       `json:"is_packed"`
	IsSkipped       bool       `json:"is_skipped"`
	Notes           string     `json:"notes,omitempty"`
	IsContainer     bool       `json:"is_container"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
