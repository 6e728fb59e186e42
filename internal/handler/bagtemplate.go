package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/middleware"
)

// bagTemplateRequest is the body for bag template create and update.
type bagTemplateRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

func (req bagTemplateRequest) toDomain(ownerID string, id uuid.UUID) domain.BagTemplate {
	return domain.BagTemplate{
		ID:        id,
		OwnerID:   ownerID,
		Name:      req.Name,
		Type:      domain.BagType(req.Type),
		Color:     req.Color,
		SortOrder: req.SortOrder,
	}
}

// CreateBagTemplate handles POST /bag-templates.
func (s *Server) CreateBagTemplate(w http.ResponseWriter, r *http.Request) {
	var req bagTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.templates.Create(r.Context(), req.toDomain(middleware.Owner(r.Context()), uuid.Nil), middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "bag template not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListBagTemplates handles GET /bag-templates.
func (s *Server) ListBagTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.templates.List(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "bag template not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetBagTemplate handles GET /bag-templates/{id}.
func (s *Server) GetBagTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	bt, err := s.templates.GetByID(r.Context(), middleware.Owner(r.Context()), id)
	if err != nil {
		s.serviceError(w, r, err, "bag template not found")
		return
	}
	writeJSON(w, http.StatusOK, bt)
}

// UpdateBagTemplate handles PUT /bag-templates/{id}.
func (s *Server) UpdateBagTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req bagTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	updated, err := s.templates.Update(r.Context(), req.toDomain(middleware.Owner(r.Context()), id), middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "bag template not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteBagTemplate handles DELETE /bag-templates/{id}.
func (s *Server) DeleteBagTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.templates.Delete(r.Context(), middleware.Owner(r.Context()), id, middleware.Device(r.Context())); err != nil {
		s.serviceError(w, r, err, "bag template not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
