package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

func TestBagRepo_CreateAndGet(t *testing.T) {
	tx := testTx(t)
	trips := repo.NewTripRepo(tx)
	bags := repo.NewBagRepo(tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)

	created, err := bags.Create(ctx, domain.Bag{
		TripID:    trip.ID,
		Name:      "Main Bag",
		Type:      domain.BagTypeChecked,
		Color:     "#00ff00",
		SortOrder: 1,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := bags.GetByID(ctx, trip.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Bag", got.Name)
	assert.Equal(t, domain.BagTypeChecked, got.Type)
}

func TestBagRepo_GetByID_ScopedToTrip(t *testing.T) {
	tx := testTx(t)
	trips := repo.NewTripRepo(tx)
	bags := repo.NewBagRepo(tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)
	other := tripFixture()
	other.Name = "Porto"
	otherTrip, err := trips.Create(ctx, other)
	require.NoError(t, err)

	bag, err := bags.Create(ctx, domain.Bag{TripID: trip.ID, Name: "Main Bag", Type: domain.BagTypeChecked})
	require.NoError(t, err)

	_, err = bags.GetByID(ctx, otherTrip.ID, bag.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBagRepo_FindByName_CaseInsensitive(t *testing.T) {
	tx := testTx(t)
	trips := repo.NewTripRepo(tx)
	bags := repo.NewBagRepo(tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)
	created, err := bags.Create(ctx, domain.Bag{TripID: trip.ID, Name: "Day Pack", Type: domain.BagTypePersonal})
	require.NoError(t, err)

	got, err := bags.FindByName(ctx, trip.ID, "day pack")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = bags.FindByName(ctx, trip.ID, "Roller")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBagRepo_Delete_ItemsBecomeLoose(t *testing.T) {
	tx := testTx(t)
	trips := repo.NewTripRepo(tx)
	bags := repo.NewBagRepo(tx)
	items := repo.NewTripItemRepo(tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)
	bag, err := bags.Create(ctx, domain.Bag{TripID: trip.ID, Name: "Main Bag", Type: domain.BagTypeChecked})
	require.NoError(t, err)
	item, err := items.Create(ctx, domain.TripItem{TripID: trip.ID, BagID: &bag.ID, Name: "Socks", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, bags.Delete(ctx, trip.ID, bag.ID))

	got, err := items.GetByID(ctx, trip.ID, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BagID, "deleting a bag must keep its items in the trip")
}

func TestBagRepo_ListByTrip_Ordering(t *testing.T) {
	tx := testTx(t)
	trips := repo.NewTripRepo(tx)
	bags := repo.NewBagRepo(tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)
	for i, name := range []string{"Second", "First"} {
		_, err := bags.Create(ctx, domain.Bag{TripID: trip.ID, Name: name, Type: domain.BagTypeCustom, SortOrder: 2 - i})
		require.NoError(t, err)
	}

	got, err := bags.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Name)
	assert.Equal(t, "Second", got[1].Name)
}
