package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/middleware"
)

// bagRequest is the body for bag create and update.
type bagRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

func (req bagRequest) toDomain(tripID, bagID uuid.UUID) domain.Bag {
	return domain.Bag{
		ID:        bagID,
		TripID:    tripID,
		Name:      req.Name,
		Type:      domain.BagType(req.Type),
		Color:     req.Color,
		SortOrder: req.SortOrder,
	}
}

// CreateBag handles POST /trips/{tripID}/bags.
func (s *Server) CreateBag(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req bagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.bags.Create(r.Context(), middleware.Owner(r.Context()), req.toDomain(tripID, uuid.Nil), middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "bag not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListBags handles GET /trips/{tripID}/bags.
func (s *Server) ListBags(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	list, err := s.bags.ListByTrip(r.Context(), middleware.Owner(r.Context()), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetBag handles GET /trips/{tripID}/bags/{bagID}.
func (s *Server) GetBag(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	bagID, ok := pathUUID(w, r, "bagID")
	if !ok {
		return
	}

	bag, err := s.bags.GetByID(r.Context(), middleware.Owner(r.Context()), tripID, bagID)
	if err != nil {
		s.serviceError(w, r, err, "bag not found")
		return
	}
	writeJSON(w, http.StatusOK, bag)
}

// UpdateBag handles PUT /trips/{tripID}/bags/{bagID}.
func (s *Server) UpdateBag(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	bagID, ok := pathUUID(w, r, "bagID")
	if !ok {
		return
	}
	var req bagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	updated, err := s.bags.Update(r.Context(), middleware.Owner(r.Context()), req.toDomain(tripID, bagID), middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "bag not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteBag handles DELETE /trips/{tripID}/bags/{bagID}.
// Items assigned to the bag stay on the trip and become unassigned.
func (s *Server) DeleteBag(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	bagID, ok := pathUUID(w, r, "bagID")
	if !ok {
		return
	}

	if err := s.bags.Delete(r.Context(), middleware.Owner(r.Context()), tripID, bagID, middleware.Device(r.Context())); err != nil {
		s.serviceError(w, r, err, "bag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
