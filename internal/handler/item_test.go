package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/handler"
	"github.com/packzen/backend/internal/middleware"
)

type mockTripItemService struct {
	create          func(ctx context.Context, ownerID string, item domain.TripItem, mergeDuplicates bool, device string) (domain.TripItem, error)
	getByID         func(ctx context.Context, ownerID string, tripID, itemID uuid.UUID) (domain.TripItem, error)
	listByTrip      func(ctx context.Context, ownerID string, tripID uuid.UUID) ([]domain.TripItem, error)
	update          func(ctx context.Context, ownerID string, item domain.TripItem, device string) (domain.TripItem, error)
	moveToContainer func(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, containerID *uuid.UUID, device string) (domain.TripItem, error)
	delete          func(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, device string) error
}

func (m *mockTripItemService) Create(ctx context.Context, ownerID string, item domain.TripItem, mergeDuplicates bool, device string) (domain.TripItem, error) {
	return m.create(ctx, ownerID, item, mergeDuplicates, device)
}
func (m *mockTripItemService) GetByID(ctx context.Context, ownerID string, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	return m.getByID(ctx, ownerID, tripID, itemID)
}
func (m *mockTripItemService) ListByTrip(ctx context.Context, ownerID string, tripID uuid.UUID) ([]domain.TripItem, error) {
	return m.listByTrip(ctx, ownerID, tripID)
}
func (m *mockTripItemService) Update(ctx context.Context, ownerID string, item domain.TripItem, device string) (domain.TripItem, error) {
	return m.update(ctx, ownerID, item, device)
}
func (m *mockTripItemService) MoveToContainer(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, containerID *uuid.UUID, device string) (domain.TripItem, error) {
	return m.moveToContainer(ctx, ownerID, tripID, itemID, containerID, device)
}
func (m *mockTripItemService) Delete(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, device string) error {
	return m.delete(ctx, ownerID, tripID, itemID, device)
}

var _ handler.TripItemServicer = (*mockTripItemService)(nil)

func newItemRouter(items handler.TripItemServicer) http.Handler {
	srv := handler.NewServer(nil, nil, nil, nil, nil, items, nil, nil, nil, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	r.Use(middleware.NewIdentityHandler())
	srv.Routes(r)
	return r
}

func TestCreateTripItem_MergeDefaultsOn(t *testing.T) {
	var gotMerge bool
	router := newItemRouter(&mockTripItemService{
		create: func(_ context.Context, _ string, item domain.TripItem, merge bool, _ string) (domain.TripItem, error) {
			gotMerge = merge
			item.ID = uuid.New()
			return item, nil
		},
	})

	rec := doRequest(t, router, http.MethodPost, "/trips/"+uuid.NewString()+"/items", `{"name":"Socks","quantity":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, gotMerge, "merging is the default")
}

func TestCreateTripItem_MergeOptOut(t *testing.T) {
	var gotMerge = true
	router := newItemRouter(&mockTripItemService{
		create: func(_ context.Context, _ string, item domain.TripItem, merge bool, _ string) (domain.TripItem, error) {
			gotMerge = merge
			return item, nil
		},
	})

	rec := doRequest(t, router, http.MethodPost, "/trips/"+uuid.NewString()+"/items?merge_duplicates=false", `{"name":"Socks"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, gotMerge)
}

func TestMoveTripItem_NullClearsContainer(t *testing.T) {
	var gotContainer *uuid.UUID = &uuid.UUID{}
	router := newItemRouter(&mockTripItemService{
		moveToContainer: func(_ context.Context, _ string, _, itemID uuid.UUID, containerID *uuid.UUID, _ string) (domain.TripItem, error) {
			gotContainer = containerID
			return domain.TripItem{ID: itemID}, nil
		},
	})

	path := "/trips/" + uuid.NewString() + "/items/" + uuid.NewString() + "/container"
	rec := doRequest(t, router, http.MethodPut, path, `{"container_item_id":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotContainer)
}

func TestMoveTripItem_ValidationError(t *testing.T) {
	router := newItemRouter(&mockTripItemService{
		moveToContainer: func(_ context.Context, _ string, _, _ uuid.UUID, _ *uuid.UUID, _ string) (domain.TripItem, error) {
			return domain.TripItem{}, domain.ErrValidation
		},
	})

	path := "/trips/" + uuid.NewString() + "/items/" + uuid.NewString() + "/container"
	rec := doRequest(t, router, http.MethodPut, path, `{"container_item_id":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
