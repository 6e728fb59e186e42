package domain

import (
	"encoding/json"
	"time"
)

// ChangeAction identifies the kind of mutation a change entry records.
type ChangeAction string

const (
	ChangeCreate ChangeAction = "create"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// Syncable entity type names used in change entries. Stored as plain strings
// so the feed stays readable and new types never require a migration.
const (
	EntityCategory    = "category"
	EntityMasterItem  = "master_item"
	EntityBagTemplate = "bag_template"
	EntityTrip        = "trip"
	EntityBag         = "bag"
	EntityTripItem    = "trip_item"
)

// ChangeEntry is one row of the append-only change log.
//
// ID is a database-assigned monotonic sequence and is the ordering key for
// feed consumption; CreatedAt is informational only and may go backwards
// under clock skew. OriginDevice is the opaque device token supplied by the
// writing client, or empty for server-originated changes (imports triggered
// by webhooks, admin tooling). Entries with an empty origin are delivered to
// every device.
type ChangeEntry struct {
	ID           int64           `json:"id"`
	OwnerID      string          `json:"-"`
	EntityType   string          `json:"entity_type"`
	EntityID     string          `json:"entity_id"`
	ParentID     string          `json:"parent_id,omitempty"`
	Action       ChangeAction    `json:"action"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	OriginDevice string          `json:"origin_device,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
