package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/packzen/backend/internal/domain"
)

// TripItemRepo defines the persistence operations for trip items.
// All operations are scoped by tripID to enforce ownership through the trip.
type TripItemRepo interface {
	Create(ctx context.Context, item domain.TripItem) (domain.TripItem, error)

	// GetByID retrieves an item by id, scoped to the given trip.
	GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error)

	// FindMatch retrieves the item in the trip whose (name, category, bag,
	// container) tuple matches case-insensitively. The nullable references
	// are compared null-safely: a nil bagID only matches items with no bag.
	// Returns domain.ErrNotFound when there is no match. This is the lookup
	// behind the quantity-merge rule.
	FindMatch(ctx context.Context, tripID uuid.UUID, name, categoryName string, bagID, containerID *uuid.UUID) (domain.TripItem, error)

	// FindInBag is FindMatch without the container component: it matches on
	// (name, category, bag) only. The merge-import engine uses it so that a
	// reimported child still matches the row that got its container link on
	// the previous import.
	FindInBag(ctx context.Context, tripID uuid.UUID, name, categoryName string, bagID *uuid.UUID) (domain.TripItem, error)

	// ListByTrip returns all items for a trip ordered by created_at.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error)

	// ListByContainer returns the items packed inside the given container item.
	ListByContainer(ctx context.Context, tripID, containerID uuid.UUID) ([]domain.TripItem, error)

	Update(ctx context.Context, item domain.TripItem) (domain.TripItem, error)

	// Delete removes an item. If it was a container, its children stay on
	// the trip with nulled container references (FK is ON DELETE SET NULL).
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

// pgTripItemRepo is the Postgres implementation of TripItemRepo.
type pgTripItemRepo struct {
	db db
}

// NewTripItemRepo constructs a TripItemRepo backed by the provided db connection.
func NewTripItemRepo(db db) TripItemRepo {
	return &pgTripItemRepo{db: db}
}

const tripItemColumns = `id, trip_id, bag_id, container_item_id, name, category_name,
		quantity, is_packed, is_skipped, notes, is_container, created_at, updated_at`

func (r *pgTripItemRepo) Create(ctx context.Context, item domain.TripItem) (domain.TripItem, error) {
	const q = `
		INSERT INTO trip_items (trip_id, bag_id, container_item_id, name, category_name,
			quantity, is_packed, is_skipped, notes, is_container)
		VALUES (@trip_id, @bag_id, @container_item_id, @name, @category_name,
			@quantity, @is_packed, @is_skipped, @notes, @is_container)
		RETURNING ` + tripItemColumns

	args := pgx.NamedArgs{
		"trip_id":           item.TripID,
		"bag_id":            item.BagID,           // nil becomes NULL
		"container_item_id": item.ContainerItemID, // nil becomes NULL
		"name":              item.Name,
		"category_name":     item.CategoryName,
		"quantity":          item.Quantity,
		"is_packed":         item.IsPacked,
		"is_skipped":        item.IsSkipped,
		"notes":             item.Notes,
		"is_container":      item.IsContainer,
	}

	result, err := scanTripItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripItemRepo) GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	const q = `
		SELECT ` + tripItemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id AND id = @id`

	result, err := scanTripItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": itemID}))
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindMatch uses IS NOT DISTINCT FROM for the nullable references so NULL
// compares equal to NULL, which plain = does not do in SQL.
func (r *pgTripItemRepo) FindMatch(ctx context.Context, tripID uuid.UUID, name, categoryName string, bagID, containerID *uuid.UUID) (domain.TripItem, error) {
	const q = `
		SELECT ` + tripItemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id
		  AND LOWER(name) = LOWER(@name)
		  AND LOWER(category_name) = LOWER(@category_name)
		  AND bag_id IS NOT DISTINCT FROM @bag_id
		  AND container_item_id IS NOT DISTINCT FROM @container_item_id
		ORDER BY created_at
		LIMIT 1`

	args := pgx.NamedArgs{
		"trip_id":           tripID,
		"name":              name,
		"category_name":     categoryName,
		"bag_id":            bagID,
		"container_item_id": containerID,
	}

	result, err := scanTripItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.FindMatch: %w", err)
	}
	return result, nil
}

func (r *pgTripItemRepo) FindInBag(ctx context.Context, tripID uuid.UUID, name, categoryName string, bagID *uuid.UUID) (domain.TripItem, error) {
	const q = `
		SELECT ` + tripItemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id
		  AND LOWER(name) = LOWER(@name)
		  AND LOWER(category_name) = LOWER(@category_name)
		  AND bag_id IS NOT DISTINCT FROM @bag_id
		ORDER BY created_at
		LIMIT 1`

	args := pgx.NamedArgs{
		"trip_id":       tripID,
		"name":          name,
		"category_name": categoryName,
		"bag_id":        bagID,
	}

	result, err := scanTripItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.FindInBag: %w", err)
	}
	return result, nil
}

func (r *pgTripItemRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error) {
	const q = `
		SELECT ` + tripItemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id
		ORDER BY created_at`

	return r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID}, "ListByTrip")
}

func (r *pgTripItemRepo) ListByContainer(ctx context.Context, tripID, containerID uuid.UUID) ([]domain.TripItem, error) {
	const q = `
		SELECT ` + tripItemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id AND container_item_id = @container_item_id
		ORDER BY created_at`

	return r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID, "container_item_id": containerID}, "ListByContainer")
}

func (r *pgTripItemRepo) list(ctx context.Context, q string, args pgx.NamedArgs, op string) ([]domain.TripItem, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripItemRepo.%s: %w", op, err)
	}
	defer rows.Close()

	items := []domain.TripItem{}
	for rows.Next() {
		it, err := scanTripItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripItemRepo.%s: scan: %w", op, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripItemRepo.%s: rows: %w", op, err)
	}
	return items, nil
}

func (r *pgTripItemRepo) Update(ctx context.Context, item domain.TripItem) (domain.TripItem, error) {
	const q = `
		UPDATE trip_items
		SET bag_id            = @bag_id,
		    container_item_id = @container_item_id,
		    name              = @name,
		    category_name     = @category_name,
		    quantity          = @quantity,
		    is_packed         = @is_packed,
		    is_skipped        = @is_skipped,
		    notes             = @notes,
		    is_container      = @is_container,
		    updated_at        = now()
		WHERE trip_id = @trip_id AND id = @id
		RETURNING ` + tripItemColumns

	args := pgx.NamedArgs{
		"id":                item.ID,
		"trip_id":           item.TripID,
		"bag_id":            item.BagID,
		"container_item_id": item.ContainerItemID,
		"name":              item.Name,
		"category_name":     item.CategoryName,
		"quantity":          item.Quantity,
		"is_packed":         item.IsPacked,
		"is_skipped":        item.IsSkipped,
		"notes":             item.Notes,
		"is_container":      item.IsContainer,
	}

	result, err := scanTripItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripItemRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM trip_items WHERE trip_id = @trip_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": itemID})
	if err != nil {
		return fmt.Errorf("repo.TripItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTripItem maps a single database row into a domain.TripItem.
// It handles the UUID and nullable reference conversions.
func scanTripItem(s scanner) (domain.TripItem, error) {
	var (
		it          domain.TripItem
		id          pgtype.UUID
		tripID      pgtype.UUID
		bagID       pgtype.UUID
		containerID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &bagID, &containerID, &it.Name, &it.CategoryName,
		&it.Quantity, &it.IsPacked, &it.IsSkipped, &it.Notes, &it.IsContainer,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripItem{}, domain.ErrNotFound
		}
		return domain.TripItem{}, err
	}
	it.ID = uuid.UUID(id.Bytes)
	it.TripID = uuid.UUID(tripID.Bytes)
	if bagID.Valid {
		bid := uuid.UUID(bagID.Bytes)
		it.BagID = &bid
	}
	if containerID.Valid {
		cid := uuid.UUID(containerID.Bytes)
		it.ContainerItemID = &cid
	}
	return it, nil
}
