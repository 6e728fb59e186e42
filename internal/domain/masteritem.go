package domain

import (
	"time"

	"github.com/google/uuid"
)

// MasterItem is a reusable catalog entry the user picks from when packing.
// CategoryID is nil for uncategorized items; deleting the category nulls the
// reference rather than cascading. Identity for merge-import matching is
// Name, compared case-insensitively within an owner.
type MasterItem struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         string     `json:"-"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	DefaultQuantity int        `json:"default_quantity"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	IsContainer     bool       `json:"is_container"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
