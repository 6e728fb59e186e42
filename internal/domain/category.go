package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is a user-defined grouping for master items (e.g. "Toiletries").
// Identity for merge-import matching is Name, compared case-insensitively
// within an owner.
type Category struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
