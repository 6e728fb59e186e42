package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/middleware"
)

// tripItemRequest is the body for trip item create and update.
type tripItemRequest struct {
	Name            string     `json:"name"`
	CategoryName    string     `json:"category_name"`
	Quantity        int        `json:"quantity"`
	BagID           *uuid.UUID `json:"bag_id"`
	ContainerItemID *uuid.UUID `json:"container_item_id"`
	IsPacked        bool       `json:"is_packed"`
	IsSkipped       bool       `json:"is_skipped"`
	Notes           string     `json:"notes"`
	IsContainer     bool       `json:"is_container"`
}

// moveItemRequest is the body for PUT /trips/{tripID}/items/{itemID}/container.
// A null container_item_id moves the item out of its container.
type moveItemRequest struct {
	ContainerItemID *uuid.UUID `json:"container_item_id"`
}

func (req tripItemRequest) toDomain(tripID, itemID uuid.UUID) domain.TripItem {
	return domain.TripItem{
		ID:              itemID,
		TripID:          tripID,
		BagID:           req.BagID,
		ContainerItemID: req.ContainerItemID,
		Name:            req.Name,
		CategoryName:    req.CategoryName,
		Quantity:        req.Quantity,
		IsPacked:        req.IsPacked,
		IsSkipped:       req.IsSkipped,
		Notes:           req.Notes,
		IsContainer:     req.IsContainer,
	}
}

// CreateTripItem handles POST /trips/{tripID}/items.
// By default an item matching an existing row on (name, category, bag) is
// merged into it by summing quantities. Pass ?merge_duplicates=false to
// always create a new row.
func (s *Server) CreateTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req tripItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	merge := r.URL.Query().Get("merge_duplicates") != "false"
	created, err := s.items.Create(r.Context(), middleware.Owner(r.Context()), req.toDomain(tripID, uuid.Nil), merge, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTripItems handles GET /trips/{tripID}/items.
func (s *Server) ListTripItems(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	list, err := s.items.ListByTrip(r.Context(), middleware.Owner(r.Context()), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetTripItem handles GET /trips/{tripID}/items/{itemID}.
func (s *Server) GetTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}

	item, err := s.items.GetByID(r.Context(), middleware.Owner(r.Context()), tripID, itemID)
	if err != nil {
		s.serviceError(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateTripItem handles PUT /trips/{tripID}/items/{itemID}.
func (s *Server) UpdateTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}
	var req tripItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	updated, err := s.items.Update(r.Context(), middleware.Owner(r.Context()), req.toDomain(tripID, itemID), middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// MoveTripItem handles PUT /trips/{tripID}/items/{itemID}/container.
func (s *Server) MoveTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}
	var req moveItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	moved, err := s.items.MoveToContainer(r.Context(), middleware.Owner(r.Context()), tripID, itemID, req.ContainerItemID, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

// DeleteTripItem handles DELETE /trips/{tripID}/items/{itemID}.
// Deleting a container leaves its former contents loose in their bag.
func (s *Server) DeleteTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}

	if err := s.items.Delete(r.Context(), middleware.Owner(r.Context()), tripID, itemID, middleware.Device(r.Context())); err != nil {
		s.serviceError(w, r, err, "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
