package backup_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packzen/backend/internal/backup"
	"github.com/packzen/backend/internal/domain"
)

// ---- fixtures --------------------------------------------------------------

func snapshotFixture() backup.Snapshot {
	catID := uuid.New()
	tripID := uuid.New()
	bagID := uuid.New()
	cubeID := uuid.New()
	sockID := uuid.New()
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	return backup.Snapshot{
		Categories: []domain.Category{
			{ID: catID, Name: "Clothing", Icon: "shirt", SortOrder: 1},
		},
		MasterItems: []domain.MasterItem{
			{ID: uuid.New(), Name: "Socks", DefaultQuantity: 5, CategoryID: &catID},
			{ID: uuid.New(), Name: "Packing Cube", DefaultQuantity: 1, IsContainer: true},
		},
		BagTemplates: []domain.BagTemplate{
			{ID: uuid.New(), Name: "Weekender", Type: domain.BagTypeCarryOn, Color: "#ff0000"},
		},
		Trips: []backup.TripSnapshot{
			{
				Trip: domain.Trip{ID: tripID, Name: "Lisbon", Destination: "Portugal", StartDate: &start, EndDate: &end},
				Bags: []domain.Bag{
					{ID: bagID, TripID: tripID, Name: "Main Bag", Type: domain.BagTypeChecked},
				},
				Items: []domain.TripItem{
					{ID: cubeID, TripID: tripID, BagID: &bagID, Name: "Packing Cube", Quantity: 1, IsContainer: true},
					{ID: sockID, TripID: tripID, BagID: &bagID, ContainerItemID: &cubeID, Name: "Socks", CategoryName: "Clothing", Quantity: 5},
				},
			},
		},
	}
}

// ---- Encode ----------------------------------------------------------------

func TestEncode_DocumentShape(t *testing.T) {
	doc := backup.Encode(snapshotFixture(), time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, "2026-08-01T12:00:00Z", doc.ExportDate)
	require.Len(t, doc.Categories, 1)
	require.Len(t, doc.MasterItems, 2)
	require.Len(t, doc.BagTemplates, 1)
	require.Len(t, doc.Trips, 1)

	trip := doc.Trips[0]
	assert.Equal(t, "Lisbon", trip.Name)
	assert.Equal(t, "2026-07-01", trip.StartDate)
	assert.Equal(t, "2026-07-14", trip.EndDate)
}

func TestEncode_MasterItemCategoryByName(t *testing.T) {
	doc := backup.Encode(snapshotFixture(), time.Now())

	assert.Equal(t, "Clothing", doc.MasterItems[0].CategoryName)
	assert.Empty(t, doc.MasterItems[1].CategoryName, "uncategorized item should carry no category name")
}

func TestEncode_SourceIDsAndNameFallbacks(t *testing.T) {
	doc := backup.Encode(snapshotFixture(), time.Now())

	items := doc.Trips[0].Items
	require.Len(t, items, 2)

	cube, socks := items[0], items[1]
	assert.Equal(t, "b1", doc.Trips[0].Bags[0].SourceID)
	assert.Equal(t, "i1", cube.SourceID)
	assert.Equal(t, "i2", socks.SourceID)

	// Both ends of each reference are written: source id plus name.
	assert.Equal(t, "b1", socks.BagSourceID)
	assert.Equal(t, "Main Bag", socks.BagName)
	assert.Equal(t, "i1", socks.ContainerSourceID)
	assert.Equal(t, "Packing Cube", socks.ContainerName)
}

func TestEncode_SourceIDsUniqueAcrossTrips(t *testing.T) {
	snap := snapshotFixture()
	second := snap.Trips[0]
	second.Trip.Name = "Porto"
	snap.Trips = append(snap.Trips, second)

	doc := backup.Encode(snap, time.Now())

	require.Len(t, doc.Trips, 2)
	assert.Equal(t, "b1", doc.Trips[0].Bags[0].SourceID)
	assert.Equal(t, "b2", doc.Trips[1].Bags[0].SourceID)
	assert.Equal(t, "i3", doc.Trips[1].Items[0].SourceID)
}

func TestEncodeTrip_EmptyTopLevelCollections(t *testing.T) {
	doc := backup.EncodeTrip(snapshotFixture().Trips[0], time.Now())

	assert.Empty(t, doc.Categories)
	assert.Empty(t, doc.MasterItems)
	assert.Empty(t, doc.BagTemplates)
	require.Len(t, doc.Trips, 1)
}

// ---- Decode ----------------------------------------------------------------

func TestDecode_RoundTrip(t *testing.T) {
	original := backup.Encode(snapshotFixture(), time.Now())
	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := backup.Decode(data)

	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := backup.Decode([]byte(`{"version": "1.0",`))

	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	_, err := backup.Decode([]byte(`{"version": "2.0", "trips": []}`))

	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecode_MissingVersion(t *testing.T) {
	_, err := backup.Decode([]byte(`{"trips": []}`))

	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecode_MissingCollectionsBecomeEmpty(t *testing.T) {
	doc, err := backup.Decode([]byte(`{"version": "1.0"}`))

	require.NoError(t, err)
	assert.NotNil(t, doc.Categories)
	assert.NotNil(t, doc.MasterItems)
	assert.NotNil(t, doc.BagTemplates)
	assert.NotNil(t, doc.Trips)
}

func TestDecode_TripWithoutNameRejected(t *testing.T) {
	_, err := backup.Decode([]byte(`{"version": "1.0", "trips": [{"bags": [], "items": []}]}`))

	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestDecode_QuantitiesDefaultToOne(t *testing.T) {
	raw := `{
		"version": "1.0",
		"masterItems": [{"name": "Socks", "default_quantity": 0}],
		"trips": [{"name": "Lisbon", "items": [{"name": "Socks", "quantity": -3}]}]
	}`

	doc, err := backup.Decode([]byte(raw))

	require.NoError(t, err)
	assert.Equal(t, 1, doc.MasterItems[0].DefaultQuantity)
	assert.Equal(t, 1, doc.Trips[0].Items[0].Quantity)
}

// ---- ParseDate -------------------------------------------------------------

func TestParseDate(t *testing.T) {
	got := backup.ParseDate("2026-07-01")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, backup.ParseDate(""), "empty string is unset")
	assert.Nil(t, backup.ParseDate("July 1st"), "malformed dates are treated as unset")
}
