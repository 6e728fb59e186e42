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

// BagRepo defines the persistence operations for Bags.
// All operations are scoped by tripID to enforce ownership through the trip.
type BagRepo interface {
	Create(ctx context.Context, bag domain.Bag) (domain.Bag, error)

	// GetByID retrieves a bag by id, scoped to the given trip.
	// Returns domain.ErrNotFound if no bag with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, bagID uuid.UUID) (domain.Bag, error)

	// FindByName retrieves the bag in the trip whose name matches
	// case-insensitively. Returns domain.ErrNotFound when there is no match.
	FindByName(ctx context.Context, tripID uuid.UUID, name string) (domain.Bag, error)

	// ListByTrip returns all bags for a trip ordered by sort_order, name.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Bag, error)

	Update(ctx context.Context, bag domain.Bag) (domain.Bag, error)

	// Delete removes a bag. Items assigned to it stay on the trip with a
	// nulled bag reference (FK is ON DELETE SET NULL).
	Delete(ctx context.Context, tripID, bagID uuid.UUID) error
}

// pgBagRepo is the Postgres implementation of BagRepo.
type pgBagRepo struct {
	db db
}

// NewBagRepo constructs a BagRepo backed by the provided db connection.
func NewBagRepo(db db) BagRepo {
	return &pgBagRepo{db: db}
}

const bagColumns = `id, trip_id, name, bag_type, color, sort_order, created_at, updated_at`

func (r *pgBagRepo) Create(ctx context.Context, bag domain.Bag) (domain.Bag, error) {
	const q = `
		INSERT INTO bags (trip_id, name, bag_type, color, sort_order)
		VALUES (@trip_id, @name, @bag_type, @color, @sort_order)
		RETURNING ` + bagColumns

	args := pgx.NamedArgs{
		"trip_id":    bag.TripID,
		"name":       bag.Name,
		"bag_type":   string(bag.Type),
		"color":      bag.Color,
		"sort_order": bag.SortOrder,
	}

	result, err := scanBag(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bag{}, fmt.Errorf("repo.BagRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBagRepo) GetByID(ctx context.Context, tripID, bagID uuid.UUID) (domain.Bag, error) {
	const q = `
		SELECT ` + bagColumns + `
		FROM bags
		WHERE trip_id = @trip_id AND id = @id`

	result, err := scanBag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": bagID}))
	if err != nil {
		return domain.Bag{}, fmt.Errorf("repo.BagRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBagRepo) FindByName(ctx context.Context, tripID uuid.UUID, name string) (domain.Bag, error) {
	const q = `
		SELECT ` + bagColumns + `
		FROM bags
		WHERE trip_id = @trip_id AND LOWER(name) = LOWER(@name)
		ORDER BY created_at
		LIMIT 1`

	result, err := scanBag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "name": name}))
	if err != nil {
		return domain.Bag{}, fmt.Errorf("repo.BagRepo.FindByName: %w", err)
	}
	return result, nil
}

func (r *pgBagRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Bag, error) {
	const q = `
		SELECT ` + bagColumns + `
		FROM bags
		WHERE trip_id = @trip_id
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.BagRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	bags := []domain.Bag{}
	for rows.Next() {
		b, err := scanBag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BagRepo.ListByTrip: scan: %w", err)
		}
		bags = append(bags, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BagRepo.ListByTrip: rows: %w", err)
	}
	return bags, nil
}

func (r *pgBagRepo) Update(ctx context.Context, bag domain.Bag) (domain.Bag, error) {
	const q = `
		UPDATE bags
		SET name       = @name,
		    bag_type   = @bag_type,
		    color      = @color,
		    sort_order = @sort_order,
		    updated_at = now()
		WHERE trip_id = @trip_id AND id = @id
		RETURNING ` + bagColumns

	args := pgx.NamedArgs{
		"id":         bag.ID,
		"trip_id":    bag.TripID,
		"name":       bag.Name,
		"bag_type":   string(bag.Type),
		"color":      bag.Color,
		"sort_order": bag.SortOrder,
	}

	result, err := scanBag(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bag{}, fmt.Errorf("repo.BagRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgBagRepo) Delete(ctx context.Context, tripID, bagID uuid.UUID) error {
	const q = `DELETE FROM bags WHERE trip_id = @trip_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": bagID})
	if err != nil {
		return fmt.Errorf("repo.BagRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BagRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanBag maps a single database row into a domain.Bag.
func scanBag(s scanner) (domain.Bag, error) {
	var (
		b       domain.Bag
		id      pgtype.UUID
		tripID  pgtype.UUID
		bagType string
	)
	err := s.Scan(&id, &tripID, &b.Name, &bagType, &b.Color, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bag{}, domain.ErrNotFound
		}
		return domain.Bag{}, err
	}
	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(tripID.Bytes)
	b.Type = domain.BagType(bagType)
	return b, nil
}
