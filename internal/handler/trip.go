package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/middleware"
)

// tripRequest is the body for trip create and update. Dates are calendar
// dates in YYYY-MM-DD form; empty strings mean unset.
type tripRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Notes       string `json:"notes"`
}

// copyTripRequest is the body for POST /trips/{tripID}/copy.
type copyTripRequest struct {
	Name string `json:"name"`
}

func (req tripRequest) toDomain(ownerID string) (domain.Trip, error) {
	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		return domain.Trip{}, err
	}
	end, err := parseDateField("end_date", req.EndDate)
	if err != nil {
		return domain.Trip{}, err
	}
	return domain.Trip{
		OwnerID:     ownerID,
		Name:        req.Name,
		Destination: req.Destination,
		StartDate:   start,
		EndDate:     end,
		Notes:       req.Notes,
	}, nil
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	trip, err := req.toDomain(middleware.Owner(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), trip, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	list, err := s.trips.List(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), middleware.Owner(r.Context()), id)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	trip, err := req.toDomain(middleware.Owner(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	trip.ID = id

	updated, err := s.trips.Update(r.Context(), trip, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{tripID}.
// Bags and items on the trip are removed with it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), middleware.Owner(r.Context()), id, middleware.Device(r.Context())); err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CopyTrip handles POST /trips/{tripID}/copy.
// It clones the trip with its bags and items under the requested name.
func (s *Server) CopyTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req copyTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	copied, err := s.trips.Copy(r.Context(), middleware.Owner(r.Context()), id, req.Name, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, copied)
}

// parseDateField parses a YYYY-MM-DD value, returning nil for the empty string.
func parseDateField(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a YYYY-MM-DD date", name)
	}
	return &t, nil
}
