package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/middleware"
)

// changesResponse is the body for GET /sync/changes.
// NextCursor is the id of the last entry returned, or the request cursor
// when the page is empty; clients pass it back on the next poll.
type changesResponse struct {
	Changes    []domain.ChangeEntry `json:"changes"`
	NextCursor int64                `json:"next_cursor"`
}

// ListChanges handles GET /sync/changes?cursor=N.
// It returns changes with id greater than the cursor, oldest first, capped
// at the configured page size. Changes written by the calling device (per
// the X-Device-Id header) are excluded.
func (s *Server) ListChanges(w http.ResponseWriter, r *http.Request) {
	cursor, err := parseCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "cursor must be a non-negative integer")
		return
	}

	entries, err := s.changes.Feed(r.Context(), middleware.Owner(r.Context()), cursor, middleware.Device(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}

	next := cursor
	if len(entries) > 0 {
		next = entries[len(entries)-1].ID
	}
	writeJSON(w, http.StatusOK, changesResponse{Changes: entries, NextCursor: next})
}

// StreamChanges handles GET /sync/stream.
// It delivers change entries as server-sent events, re-reading the feed on a
// fixed interval until the client disconnects. The starting position comes
// from ?cursor or, on reconnect, the Last-Event-ID header.
func (s *Server) StreamChanges(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	cursorParam := r.URL.Query().Get("cursor")
	if last := r.Header.Get("Last-Event-ID"); last != "" {
		cursorParam = last
	}
	cursor, err := parseCursor(cursorParam)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "cursor must be a non-negative integer")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	owner := middleware.Owner(r.Context())
	device := middleware.Device(r.Context())
	ticker := time.NewTicker(s.streamInterval)
	defer ticker.Stop()

	for {
		entries, err := s.changes.Feed(r.Context(), owner, cursor, device)
		if err != nil {
			// The connection is half-written; log and drop it so the
			// client reconnects with its Last-Event-ID.
			s.log.Error("handler: sync stream read failed", "error", err)
			return
		}
		for _, e := range entries {
			data, err := json.Marshal(e)
			if err != nil {
				s.log.Error("handler: sync stream encode failed", "error", err)
				return
			}
			fmt.Fprintf(w, "id: %d\nevent: change\ndata: %s\n\n", e.ID, data)
			cursor = e.ID
		}
		if len(entries) > 0 {
			flusher.Flush()
			// More rows may be waiting past the page cap; re-read now.
			continue
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// parseCursor parses the cursor query value; empty means start from zero.
func parseCursor(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q", v)
	}
	return n, nil
}
