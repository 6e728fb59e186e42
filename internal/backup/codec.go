package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/packzen/backend/internal/domain"
)

// dateLayout is the calendar-date format used for trip dates in documents.
const dateLayout = "2006-01-02"

// Snapshot is an in-memory view of an owner's data, assembled by the caller
// (typically from the store) and consumed by Encode. The codec never touches
// a live store handle.
type Snapshot struct {
	Categories   []domain.Category
	MasterItems  []domain.MasterItem
	BagTemplates []domain.BagTemplate
	Trips        []TripSnapshot
}

// TripSnapshot is one trip plus its bags and items.
type TripSnapshot struct {
	Trip  domain.Trip
	Bags  []domain.Bag
	Items []domain.TripItem
}

// Encode builds a backup document from a snapshot.
//
// Synthetic source ids ("b1", "b2", … for bags; "i1", "i2", … for items) are
// minted fresh on every call and are unique across the whole document. Every
// bag and container reference is written both ways: source id and name.
func Encode(snap Snapshot, now time.Time) *Document {
	doc := &Document{
		Version:      Version,
		ExportDate:   now.UTC().Format(time.RFC3339),
		Categories:   make([]CategoryRecord, 0, len(snap.Categories)),
		MasterItems:  make([]MasterItemRecord, 0, len(snap.MasterItems)),
		BagTemplates: make([]BagTemplateRecord, 0, len(snap.BagTemplates)),
		Trips:        make([]TripRecord, 0, len(snap.Trips)),
	}

	categoryNames := make(map[string]string, len(snap.Categories))
	for _, c := range snap.Categories {
		categoryNames[c.ID.String()] = c.Name
		doc.Categories = append(doc.Categories, CategoryRecord{
			Name:      c.Name,
			Icon:      c.Icon,
			SortOrder: c.SortOrder,
		})
	}

	for _, m := range snap.MasterItems {
		rec := MasterItemRecord{
			Name:            m.Name,
			Description:     m.Description,
			DefaultQuantity: m.DefaultQuantity,
			IsContainer:     m.IsContainer,
		}
		if m.CategoryID != nil {
			rec.CategoryName = categoryNames[m.CategoryID.String()]
		}
		doc.MasterItems = append(doc.MasterItems, rec)
	}

	for _, bt := range snap.BagTemplates {
		doc.BagTemplates = append(doc.BagTemplates, BagTemplateRecord{
			Name:      bt.Name,
			Type:      string(bt.Type),
			Color:     bt.Color,
			SortOrder: bt.SortOrder,
		})
	}

	var bagSeq, itemSeq int
	for _, ts := range snap.Trips {
		doc.Trips = append(doc.Trips, encodeTrip(ts, &bagSeq, &itemSeq))
	}

	return doc
}

// EncodeTrip builds a single-trip document: same shape as a full export with
// empty top-level collections.
func EncodeTrip(ts TripSnapshot, now time.Time) *Document {
	return Encode(Snapshot{Trips: []TripSnapshot{ts}}, now)
}

func encodeTrip(ts TripSnapshot, bagSeq, itemSeq *int) TripRecord {
	rec := TripRecord{
		Name:        ts.Trip.Name,
		Destination: ts.Trip.Destination,
		StartDate:   formatDate(ts.Trip.StartDate),
		EndDate:     formatDate(ts.Trip.EndDate),
		Notes:       ts.Trip.Notes,
		Bags:        make([]BagRecord, 0, len(ts.Bags)),
		Items:       make([]ItemRecord, 0, len(ts.Items)),
	}

	// Bag and item ids are replaced by synthetic source ids; remember the
	// mapping so item references can be rewritten below.
	bagRefs := make(map[string]BagRecord, len(ts.Bags))
	for _, b := range ts.Bags {
		*bagSeq++
		br := BagRecord{
			Name:      b.Name,
			Type:      string(b.Type),
			Color:     b.Color,
			SortOrder: b.SortOrder,
			SourceID:  "b" + strconv.Itoa(*bagSeq),
		}
		bagRefs[b.ID.String()] = br
		rec.Bags = append(rec.Bags, br)
	}

	itemRefs := make(map[string]ItemRecord, len(ts.Items))
	for _, it := range ts.Items {
		*itemSeq++
		itemRefs[it.ID.String()] = ItemRecord{
			Name:     it.Name,
			SourceID: "i" + strconv.Itoa(*itemSeq),
		}
	}

	for _, it := range ts.Items {
		ir := ItemRecord{
			Name:         it.Name,
			CategoryName: it.CategoryName,
			Quantity:     it.Quantity,
			SourceID:     itemRefs[it.ID.String()].SourceID,
			IsContainer:  it.IsContainer,
			IsPacked:     it.IsPacked,
			IsSkipped:    it.IsSkipped,
			Notes:        it.Notes,
		}
		if it.BagID != nil {
			if br, ok := bagRefs[it.BagID.String()]; ok {
				ir.BagName = br.Name
				ir.BagSourceID = br.SourceID
			}
		}
		if it.ContainerItemID != nil {
			if parent, ok := itemRefs[it.ContainerItemID.String()]; ok {
				ir.ContainerName = parent.Name
				ir.ContainerSourceID = parent.SourceID
			}
		}
		rec.Items = append(rec.Items, ir)
	}

	return rec
}

// Decode parses and validates a backup document.
//
// Hard failures (domain.ErrFormat): unparsable JSON, a version other than
// "1.0" (or none at all), and a trip without a name. Everything optional is
// defaulted instead of failing: missing arrays become empty, a missing or
// non-positive quantity becomes 1.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %q", domain.ErrFormat, doc.Version)
	}

	if doc.Categories == nil {
		doc.Categories = []CategoryRecord{}
	}
	if doc.MasterItems == nil {
		doc.MasterItems = []MasterItemRecord{}
	}
	if doc.BagTemplates == nil {
		doc.BagTemplates = []BagTemplateRecord{}
	}
	if doc.Trips == nil {
		doc.Trips = []TripRecord{}
	}

	for i := range doc.MasterItems {
		if doc.MasterItems[i].DefaultQuantity < 1 {
			doc.MasterItems[i].DefaultQuantity = 1
		}
	}

	for i := range doc.Trips {
		t := &doc.Trips[i]
		if t.Name == "" {
			return nil, fmt.Errorf("%w: trip name is required", domain.ErrFormat)
		}
		if t.Bags == nil {
			t.Bags = []BagRecord{}
		}
		if t.Items == nil {
			t.Items = []ItemRecord{}
		}
		for j := range t.Items {
			if t.Items[j].Quantity < 1 {
				t.Items[j].Quantity = 1
			}
		}
	}

	return &doc, nil
}

// ParseDate parses a document date string, returning nil for "".
// Malformed dates are treated as unset rather than failing the import.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
