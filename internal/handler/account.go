package handler

import (
	"net/http"

	"github.com/packzen/backend/internal/middleware"
)

// GetStats handles GET /stats.
// It returns per-entity counts for the owner's account.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.account.Stats(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DeleteAccount handles DELETE /account.
// It removes every trip, category, master item, and bag template the owner
// has. Change-log entries are kept so other devices learn about the wipe.
func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.account.DeleteAll(r.Context(), middleware.Owner(r.Context()), middleware.Device(r.Context())); err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
