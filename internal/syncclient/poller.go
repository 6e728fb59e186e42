// Package syncclient implements the device-side consumer of the change feed.
// A device runs one Poller; it repeatedly asks the feed for entries after
// its cursor, applies them locally, and advances. The feed already filters
// out the device's own writes, so everything a Poller sees is news.
package syncclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/packzen/backend/internal/domain"
)

// Source is one end of the change feed. The production implementation is an
// HTTP client hitting /sync/changes; tests use an in-memory fake.
type Source interface {
	// Changes returns entries with id > cursor, ordered by id ascending.
	Changes(ctx context.Context, cursor int64) ([]domain.ChangeEntry, error)
}

// Apply is called once per entry, in feed order. Returning an error stops
// the poller; entries are at-least-once, so Apply must be idempotent.
type Apply func(e domain.ChangeEntry) error

// Poller drives a Source in a loop, with bounded retries on transport
// failures.
type Poller struct {
	source Source
	apply  Apply
	log    *slog.Logger

	// Interval is the pause between polls that returned no entries.
	// A poll that did return entries is followed immediately by another,
	// since more may be waiting behind the page cap.
	Interval time.Duration

	// MaxRetries bounds consecutive transport failures: a poll is attempted
	// at most 1+MaxRetries times before Run gives up. This is a circuit
	// breaker against hammering an expired or invalid session, not a
	// correctness mechanism — rerunning with the same cursor is always safe.
	MaxRetries uint64

	cursor atomic.Int64
}

// New constructs a Poller starting at cursor 0 with a 5s interval and a
// failure budget of 5 consecutive attempts.
func New(source Source, apply Apply, log *slog.Logger) *Poller {
	return &Poller{
		source:     source,
		apply:      apply,
		log:        log,
		Interval:   5 * time.Second,
		MaxRetries: 4,
	}
}

// Cursor returns the id of the last applied entry. It is safe to call from
// outside the Run goroutine, e.g. to checkpoint progress periodically.
func (p *Poller) Cursor() int64 {
	return p.cursor.Load()
}

// Run polls until ctx is canceled, Apply fails, or the retry budget for a
// single poll is exhausted. A successful poll resets the budget.
func (p *Poller) Run(ctx context.Context) error {
	for {
		entries, err := p.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("syncclient.Poller.Run: giving up after %d consecutive failures: %w", p.MaxRetries+1, err)
		}

		for _, e := range entries {
			if err := p.apply(e); err != nil {
				return fmt.Errorf("syncclient.Poller.Run: apply entry %d: %w", e.ID, err)
			}
			p.cursor.Store(e.ID)
		}

		if len(entries) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Interval):
		}
	}
}

// poll fetches one page, retrying transient failures with fibonacci backoff.
func (p *Poller) poll(ctx context.Context) ([]domain.ChangeEntry, error) {
	var entries []domain.ChangeEntry

	cursor := p.cursor.Load()
	backoff := retry.WithMaxRetries(p.MaxRetries, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		entries, err = p.source.Changes(ctx, cursor)
		if err != nil {
			p.log.Warn("feed poll failed", "cursor", cursor, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
