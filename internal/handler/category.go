package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/middleware"
)

// categoryRequest is the body for category create and update.
type categoryRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory handles POST /categories.
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.categories.Create(r.Context(), domain.Category{
		OwnerID:   middleware.Owner(r.Context()),
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.categories.List(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetCategory handles GET /categories/{id}.
func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	c, err := s.categories.GetByID(r.Context(), middleware.Owner(r.Context()), id)
	if err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCategory handles PUT /categories/{id}.
func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	updated, err := s.categories.Update(r.Context(), domain.Category{
		ID:        id,
		OwnerID:   middleware.Owner(r.Context()),
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /categories/{id}.
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.categories.Delete(r.Context(), middleware.Owner(r.Context()), id, middleware.Device(r.Context())); err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathUUID parses the named chi URL parameter as a UUID, writing a 404 and
// returning ok=false when it does not parse. A malformed ID can never match
// a resource, so it is reported the same way as a missing one.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return uuid.Nil, false
	}
	return id, true
}
