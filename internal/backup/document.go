// Package backup implements the portable backup document format.
//
// A document is a self-contained JSON tree describing either a full account
// (categories, master items, bag templates, and every trip with its bags and
// items) or a single trip. Database identifiers are never emitted as
// authoritative keys: cross references inside a document are carried as
// synthetic per-export source ids with human-readable names as fallback, so
// a document can be merged into a different, non-empty database where the
// original ids mean nothing.
//
// The JSON field names below are the interoperability contract. Change them
// and existing exported documents stop importing.
package backup

// Version is the only document version this codec produces or accepts.
// Unknown versions fail closed on decode; forward compatibility is
// deliberately not attempted.
const Version = "1.0"

// Document is the top-level backup payload.
// A single-trip export is a Document with empty top-level collections and
// exactly one entry in Trips.
type Document struct {
	Version      string              `json:"version"`
	ExportDate   string              `json:"exportDate"`
	Categories   []CategoryRecord    `json:"categories"`
	MasterItems  []MasterItemRecord  `json:"masterItems"`
	BagTemplates []BagTemplateRecord `json:"bagTemplates"`
	Trips        []TripRecord        `json:"trips"`
}

// CategoryRecord is one category in a backup document.
type CategoryRecord struct {
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// MasterItemRecord is one master catalog item. CategoryName refers to a
// CategoryRecord by name; an unresolvable name imports as uncategorized.
type MasterItemRecord struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	CategoryName    string `json:"category_name,omitempty"`
	DefaultQuantity int    `json:"default_quantity"`
	IsContainer     bool   `json:"is_container"`
}

// BagTemplateRecord is one bag template.
type BagTemplateRecord struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// TripRecord is one trip with its nested bags and items.
// StartDate and EndDate are "2006-01-02" strings, empty when unset.
type TripRecord struct {
	Name        string       `json:"name"`
	Destination string       `json:"destination,omitempty"`
	StartDate   string       `json:"start_date,omitempty"`
	EndDate     string       `json:"end_date,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Bags        []BagRecord  `json:"bags"`
	Items       []ItemRecord `json:"items"`
}

// BagRecord is one bag inside a trip. SourceID is minted at export time and
// is meaningful only within the enclosing document; items reference their
// bag through it (with BagName as fallback for hand-edited documents).
type BagRecord struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color,omitempty"`
	SortOrder int    `json:"sort_order"`
	SourceID  string `json:"source_id,omitempty"`
}

// ItemRecord is one packing-list item inside a trip.
//
// Bag and container references are each carried twice: by source id and by
// name. Importers must consult the source id first and fall back to the
// name, since names are not guaranteed unique in hand-edited documents.
type ItemRecord struct {
	Name              string `json:"name"`
	CategoryName      string `json:"category_name,omitempty"`
	Quantity          int    `json:"quantity"`
	BagName           string `json:"bag_name,omitempty"`
	BagSourceID       string `json:"bag_source_id,omitempty"`
	SourceID          string `json:"source_id,omitempty"`
	ContainerName     string `json:"container_name,omitempty"`
	ContainerSourceID string `json:"container_source_id,omitempty"`
	IsContainer       bool   `json:"is_container"`
	IsPacked          bool   `json:"is_packed"`
	IsSkipped         bool   `json:"is_skipped"`
	Notes             string `json:"notes,omitempty"`
}
