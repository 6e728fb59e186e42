package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/packzen/backend/internal/domain"
)

// ChangeLogRepo defines the persistence operations for the append-only
// change log. Rows are inserted and eventually pruned by age; they are never
// updated.
type ChangeLogRepo interface {
	// Append inserts one change entry and returns it with the DB-assigned
	// monotonic id and timestamp.
	Append(ctx context.Context, e domain.ChangeEntry) (domain.ChangeEntry, error)

	// ListAfter returns up to limit entries for the owner with id > cursor,
	// ordered by id ascending, excluding entries whose origin device equals
	// device. Entries with a NULL origin are never excluded. An empty device
	// excludes nothing.
	ListAfter(ctx context.Context, ownerID string, cursor int64, device string, limit int) ([]domain.ChangeEntry, error)

	// DeleteOlderThan removes the owner's entries created before cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int64, error)
}

// pgChangeLogRepo is the Postgres implementation of ChangeLogRepo.
type pgChangeLogRepo struct {
	db db
}

// NewChangeLogRepo constructs a ChangeLogRepo backed by the provided db connection.
func NewChangeLogRepo(db db) ChangeLogRepo {
	return &pgChangeLogRepo{db: db}
}

const changeColumns = `id, owner_id, entity_type, entity_id, parent_id, action, payload, origin_device, created_at`

// Append stores empty parent/origin strings as NULL so the feed query's
// "NULL origin is for everyone" rule works without a special empty-string case.
func (r *pgChangeLogRepo) Append(ctx context.Context, e domain.ChangeEntry) (domain.ChangeEntry, error) {
	const q = `
		INSERT INTO change_log (owner_id, entity_type, entity_id, parent_id, action, payload, origin_device)
		VALUES (@owner_id, @entity_type, @entity_id, NULLIF(@parent_id, ''), @action, @payload, NULLIF(@origin_device, ''))
		RETURNING ` + changeColumns

	args := pgx.NamedArgs{
		"owner_id":      e.OwnerID,
		"entity_type":   e.EntityType,
		"entity_id":     e.EntityID,
		"parent_id":     e.ParentID,
		"action":        string(e.Action),
		"payload":       e.Payload, // nil becomes NULL
		"origin_device": e.OriginDevice,
	}

	result, err := scanChangeEntry(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ChangeEntry{}, fmt.Errorf("repo.ChangeLogRepo.Append: %w", err)
	}
	return result, nil
}

// ListAfter orders by id, not created_at: the sequence is the feed's ordering
// key because timestamps may go backwards under clock skew.
func (r *pgChangeLogRepo) ListAfter(ctx context.Context, ownerID string, cursor int64, device string, limit int) ([]domain.ChangeEntry, error) {
	const q = `
		SELECT ` + changeColumns + `
		FROM change_log
		WHERE owner_id = @owner_id
		  AND id > @cursor
		  AND (@device = '' OR origin_device IS NULL OR origin_device <> @device)
		ORDER BY id
		LIMIT @limit`

	args := pgx.NamedArgs{
		"owner_id": ownerID,
		"cursor":   cursor,
		"device":   device,
		"limit":    limit,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ChangeLogRepo.ListAfter: %w", err)
	}
	defer rows.Close()

	entries := []domain.ChangeEntry{}
	for rows.Next() {
		e, err := scanChangeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ChangeLogRepo.ListAfter: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ChangeLogRepo.ListAfter: rows: %w", err)
	}
	return entries, nil
}

func (r *pgChangeLogRepo) DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM change_log WHERE owner_id = @owner_id AND created_at < @cutoff`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "cutoff": cutoff})
	if err != nil {
		return 0, fmt.Errorf("repo.ChangeLogRepo.DeleteOlderThan: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanChangeEntry maps a single database row into a domain.ChangeEntry.
func scanChangeEntry(s scanner) (domain.ChangeEntry, error) {
	var (
		e      domain.ChangeEntry
		parent *string
		origin *string
		action string
	)
	err := s.Scan(&e.ID, &e.OwnerID, &e.EntityType, &e.EntityID, &parent, &action,
		&e.Payload, &origin, &e.CreatedAt)
	if err != nil {
		return domain.ChangeEntry{}, err
	}
	e.Action = domain.ChangeAction(action)
	if parent != nil {
		e.ParentID = *parent
	}
	if origin != nil {
		e.OriginDevice = *origin
	}
	return e, nil
}
