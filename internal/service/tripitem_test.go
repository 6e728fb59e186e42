package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/service"
)

// itemEnv is a TripItemService wired to fakes with one trip and one bag
// already present.
type itemEnv struct {
	svc   *service.TripItemService
	items *tripItemRepoFake
	rec   *recorderFake
	trip  domain.Trip
	bag   domain.Bag
}

func newItemEnv(t *testing.T) *itemEnv {
	t.Helper()
	trips := &tripRepoFake{}
	bags := &bagRepoFake{}
	items := &tripItemRepoFake{}
	rec := &recorderFake{}

	trip, err := trips.Create(context.Background(), domain.Trip{OwnerID: testOwner, Name: "Lisbon"})
	require.NoError(t, err)
	bag, err := bags.Create(context.Background(), domain.Bag{TripID: trip.ID, Name: "Main Bag", Type: domain.BagTypeChecked})
	require.NoError(t, err)

	return &itemEnv{
		svc:   service.NewTripItemService(trips, bags, items, rec),
		items: items,
		rec:   rec,
		trip:  trip,
		bag:   bag,
	}
}

func (e *itemEnv) newItem(name string, qty int) domain.TripItem {
	return domain.TripItem{TripID: e.trip.ID, BagID: &e.bag.ID, Name: name, Quantity: qty}
}

func TestTripItemService_Create_MergesDuplicates(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)
	merged, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 3), true, "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID, "duplicate should merge into the existing row")
	assert.Equal(t, 5, merged.Quantity)
	assert.Len(t, env.items.rows, 1)
}

func TestTripItemService_Create_MergeIsCaseInsensitive(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, testOwner, env.newItem("SOCKS", 1), true, "")
	require.NoError(t, err)

	require.Len(t, env.items.rows, 1)
	assert.Equal(t, 3, env.items.rows[0].Quantity)
}

func TestTripItemService_Create_MergeOptOut(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, testOwner, env.newItem("Socks", 3), false, "")
	require.NoError(t, err)

	assert.Len(t, env.items.rows, 2, "merge_duplicates=false always creates a new row")
}

func TestTripItemService_Create_DifferentBagNeverMerges(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)

	loose := env.newItem("Socks", 2)
	loose.BagID = nil
	_, err = env.svc.Create(ctx, testOwner, loose, true, "")
	require.NoError(t, err)

	assert.Len(t, env.items.rows, 2, "the match tuple includes the bag")
}

func TestTripItemService_Create_QuantityDefaultsToOne(t *testing.T) {
	env := newItemEnv(t)

	created, err := env.svc.Create(context.Background(), testOwner, env.newItem("Socks", 0), true, "")

	require.NoError(t, err)
	assert.Equal(t, 1, created.Quantity)
}

func TestTripItemService_Create_MissingName(t *testing.T) {
	env := newItemEnv(t)

	_, err := env.svc.Create(context.Background(), testOwner, env.newItem("   ", 1), true, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripItemService_Create_BagFromAnotherTrip(t *testing.T) {
	env := newItemEnv(t)
	foreign := uuid.New()
	item := env.newItem("Socks", 1)
	item.BagID = &foreign

	_, err := env.svc.Create(context.Background(), testOwner, item, true, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripItemService_Create_UnknownTrip(t *testing.T) {
	env := newItemEnv(t)
	item := env.newItem("Socks", 1)
	item.TripID = uuid.New()

	_, err := env.svc.Create(context.Background(), testOwner, item, true, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripItemService_MoveToContainer(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	cube := env.newItem("Packing Cube", 1)
	cube.IsContainer = true
	cube, err := env.svc.Create(ctx, testOwner, cube, true, "")
	require.NoError(t, err)
	socks, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)

	moved, err := env.svc.MoveToContainer(ctx, testOwner, env.trip.ID, socks.ID, &cube.ID, "")

	require.NoError(t, err)
	require.NotNil(t, moved.ContainerItemID)
	assert.Equal(t, cube.ID, *moved.ContainerItemID)
}

func TestTripItemService_MoveToContainer_NilRemovesLink(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	cube := env.newItem("Packing Cube", 1)
	cube.IsContainer = true
	cube, err := env.svc.Create(ctx, testOwner, cube, true, "")
	require.NoError(t, err)
	socks, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)
	_, err = env.svc.MoveToContainer(ctx, testOwner, env.trip.ID, socks.ID, &cube.ID, "")
	require.NoError(t, err)

	moved, err := env.svc.MoveToContainer(ctx, testOwner, env.trip.ID, socks.ID, nil, "")

	require.NoError(t, err)
	assert.Nil(t, moved.ContainerItemID)
}

func TestTripItemService_MoveToContainer_SelfReference(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	cube := env.newItem("Packing Cube", 1)
	cube.IsContainer = true
	cube, err := env.svc.Create(ctx, testOwner, cube, true, "")
	require.NoError(t, err)

	_, err = env.svc.MoveToContainer(ctx, testOwner, env.trip.ID, cube.ID, &cube.ID, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripItemService_MoveToContainer_NoNesting(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	outer := env.newItem("Outer Cube", 1)
	outer.IsContainer = true
	outer, err := env.svc.Create(ctx, testOwner, outer, true, "")
	require.NoError(t, err)
	inner := env.newItem("Inner Cube", 1)
	inner.IsContainer = true
	inner, err = env.svc.Create(ctx, testOwner, inner, true, "")
	require.NoError(t, err)

	_, err = env.svc.MoveToContainer(ctx, testOwner, env.trip.ID, inner.ID, &outer.ID, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripItemService_MoveToContainer_TargetNotAContainer(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	shirt, err := env.svc.Create(ctx, testOwner, env.newItem("Shirt", 1), true, "")
	require.NoError(t, err)
	socks, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)

	_, err = env.svc.MoveToContainer(ctx, testOwner, env.trip.ID, socks.ID, &shirt.ID, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripItemService_Delete_ChildrenBecomeLoose(t *testing.T) {
	env := newItemEnv(t)
	ctx := context.Background()

	cube := env.newItem("Packing Cube", 1)
	cube.IsContainer = true
	cube, err := env.svc.Create(ctx, testOwner, cube, true, "")
	require.NoError(t, err)
	socks, err := env.svc.Create(ctx, testOwner, env.newItem("Socks", 2), true, "")
	require.NoError(t, err)
	_, err = env.svc.MoveToContainer(ctx, testOwner, env.trip.ID, socks.ID, &cube.ID, "")
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, testOwner, env.trip.ID, cube.ID, ""))

	got, err := env.svc.GetByID(ctx, testOwner, env.trip.ID, socks.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ContainerItemID, "deleting a container leaves its contents loose")
	require.NotNil(t, got.BagID)
	assert.Equal(t, env.bag.ID, *got.BagID, "the bag assignment survives")
}

func TestTripItemService_Create_RecordsChange(t *testing.T) {
	env := newItemEnv(t)

	created, err := env.svc.Create(context.Background(), testOwner, env.newItem("Socks", 2), true, "dev-a")
	require.NoError(t, err)

	require.Len(t, env.rec.entries, 1)
	e := env.rec.entries[0]
	assert.Equal(t, domain.EntityTripItem, e.EntityType)
	assert.Equal(t, created.ID.String(), e.EntityID)
	assert.Equal(t, env.trip.ID.String(), e.ParentID)
	assert.Equal(t, domain.ChangeCreate, e.Action)
	assert.Equal(t, "dev-a", e.OriginDevice)
	assert.NotEmpty(t, e.Payload)
}
