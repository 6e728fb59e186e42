// Package service contains the business logic for the Packzen backend.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// ChangeRecorder is the fire-and-forget side of the change log.
// Entity services call Record after every successful mutation; the call must
// never block the mutation or surface a failure to it.
type ChangeRecorder interface {
	Record(e domain.ChangeEntry)
}

// ChangeLogService appends to and reads from the per-owner change log that
// lets multiple devices converge without polling full snapshots.
type ChangeLogService struct {
	repo repo.ChangeLogRepo
	log  *slog.Logger

	// Retention is how long entries live before pruning removes them.
	Retention time.Duration
	// PageSize caps how many entries one Feed call returns.
	PageSize int
	// PruneProbability is the chance a Record call triggers a prune of the
	// owner's expired entries. Pruning on every write would be wasted work;
	// a small independent probability amortizes it across writes.
	PruneProbability float64
	// AppendTimeout bounds the background append, which runs detached from
	// the request that triggered it.
	AppendTimeout time.Duration
}

// NewChangeLogService constructs a ChangeLogService with the default
// retention (24h), page size (50), and prune probability (1%).
func NewChangeLogService(r repo.ChangeLogRepo, log *slog.Logger) *ChangeLogService {
	return &ChangeLogService{
		repo:             r,
		log:              log,
		Retention:        24 * time.Hour,
		PageSize:         50,
		PruneProbability: 0.01,
		AppendTimeout:    5 * time.Second,
	}
}

// Record appends a change entry in the background and returns immediately.
//
// The goroutine carries its own timeout context rather than the request's:
// the request may complete (and its context be canceled) before the append
// lands. A failed append is logged and dropped — losing one sync
// notification is preferable to failing the user's mutation, and the store
// itself remains the source of truth for any device that misses it.
func (s *ChangeLogService) Record(e domain.ChangeEntry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.AppendTimeout)
		defer cancel()

		if _, err := s.repo.Append(ctx, e); err != nil {
			s.log.Warn("change log append failed",
				"owner", e.OwnerID,
				"entity_type", e.EntityType,
				"action", string(e.Action),
				"error", err,
			)
			return
		}

		if rand.Float64() < s.PruneProbability {
			s.prune(ctx, e.OwnerID)
		}
	}()
}

// Feed returns one page of change entries for the owner with id > cursor,
// ordered by id ascending, excluding entries the caller's own device wrote.
// Entries with no origin device are delivered to everyone.
// Re-reading the same cursor is safe: ids are stable, so the caller sees the
// same entries (or a superset) again, never different ones.
func (s *ChangeLogService) Feed(ctx context.Context, ownerID string, cursor int64, device string) ([]domain.ChangeEntry, error) {
	entries, err := s.repo.ListAfter(ctx, ownerID, cursor, device, s.PageSize)
	if err != nil {
		return nil, fmt.Errorf("service.ChangeLogService.Feed: %w", err)
	}
	if entries == nil {
		entries = []domain.ChangeEntry{}
	}
	return entries, nil
}

func (s *ChangeLogService) prune(ctx context.Context, ownerID string) {
	cutoff := time.Now().Add(-s.Retention)
	n, err := s.repo.DeleteOlderThan(ctx, ownerID, cutoff)
	if err != nil {
		s.log.Warn("change log prune failed", "owner", ownerID, "error", err)
		return
	}
	if n > 0 {
		s.log.Debug("pruned change log", "owner", ownerID, "removed", n)
	}
}

// recordChange builds and records one change entry. payload is marshaled to
// JSON when non-nil; a marshal failure drops the payload, not the entry.
func recordChange(rec ChangeRecorder, ownerID, entityType, entityID, parentID string, action domain.ChangeAction, payload any, device string) {
	e := domain.ChangeEntry{
		OwnerID:      ownerID,
		EntityType:   entityType,
		EntityID:     entityID,
		ParentID:     parentID,
		Action:       action,
		OriginDevice: device,
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			e.Payload = b
		}
	}
	rec.Record(e)
}
