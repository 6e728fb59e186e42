package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/middleware"
)

// masterItemRequest is the body for master item create and update.
type masterItemRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DefaultQuantity int        `json:"default_quantity"`
	CategoryID      *uuid.UUID `json:"category_id"`
	IsContainer     bool       `json:"is_container"`
}

func (req masterItemRequest) toDomain(ownerID string, id uuid.UUID) domain.MasterItem {
	return domain.MasterItem{
		ID:              id,
		OwnerID:         ownerID,
		Name:            req.Name,
		Description:     req.Description,
		DefaultQuantity: req.DefaultQuantity,
		CategoryID:      req.CategoryID,
		IsContainer:     req.IsContainer,
	}
}

// CreateMasterItem handles POST /master-items.
func (s *Server) CreateMasterItem(w http.ResponseWriter, r *http.Request) {
	var req masterItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.masters.Create(r.Context(), req.toDomain(middleware.Owner(r.Context()), uuid.Nil), middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "master item not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListMasterItems handles GET /master-items.
func (s *Server) ListMasterItems(w http.ResponseWriter, r *http.Request) {
	list, err := s.masters.List(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "master item not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetMasterItem handles GET /master-items/{id}.
func (s *Server) GetMasterItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	m, err := s.masters.GetByID(r.Context(), middleware.Owner(r.Context()), id)
	if err != nil {
		s.serviceError(w, r, err, "master item not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// UpdateMasterItem handles PUT /master-items/{id}.
func (s *Server) UpdateMasterItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req masterItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	updated, err := s.masters.Update(r.Context(), req.toDomain(middleware.Owner(r.Context()), id), middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "master item not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMasterItem handles DELETE /master-items/{id}.
func (s *Server) DeleteMasterItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.masters.Delete(r.Context(), middleware.Owner(r.Context()), id, middleware.Device(r.Context())); err != nil {
		s.serviceError(w, r, err, "master item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
