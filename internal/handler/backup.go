package handler

import (
	"io"
	"net/http"

	"github.com/packzen/backend/internal/backup"
	"github.com/packzen/backend/internal/middleware"
)

// Export handles GET /export.
// It returns the owner's full dataset as a portable backup document.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := s.backups.Export(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "export failed")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="packzen-backup.json"`)
	writeJSON(w, http.StatusOK, doc)
}

// ExportTrip handles GET /trips/{tripID}/export.
// It returns a backup document holding the single trip and empty collections.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	doc, err := s.backups.ExportTrip(r.Context(), middleware.Owner(r.Context()), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="packzen-trip.json"`)
	writeJSON(w, http.StatusOK, doc)
}

// Import handles POST /import.
// The body is a backup document; its contents are merged into the owner's
// existing data by name rather than replacing it. An unreadable or
// unsupported document is rejected before any write happens.
func (s *Server) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_format", "could not read request body")
		return
	}

	doc, err := backup.Decode(body)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}

	if err := s.backups.Import(r.Context(), middleware.Owner(r.Context()), middleware.Device(r.Context()), doc); err != nil {
		s.serviceError(w, r, err, "referenced resource not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
