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

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a trip by id, scoped to the owner.
	// Returns domain.ErrNotFound if no such trip exists for that owner.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Trip, error)

	// FindByName retrieves the trip whose name matches case-insensitively.
	// Returns domain.ErrNotFound when there is no match.
	FindByName(ctx context.Context, ownerID, name string) (domain.Trip, error)

	// ListByOwner returns all trips for an owner ordered by start_date
	// descending with NULL starts last, then by name.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip. Its bags and items go with it (FKs are
	// ON DELETE CASCADE).
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// CountByOwner returns the number of trips the owner has.
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, name, destination, start_date, end_date, notes, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, name, destination, start_date, end_date, notes)
		VALUES (@owner_id, @name, @destination, @start_date, @end_date, @notes)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_id":    trip.OwnerID,
		"name":        trip.Name,
		"destination": trip.Destination,
		"start_date":  trip.StartDate, // nil becomes NULL
		"end_date":    trip.EndDate,
		"notes":       trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id AND id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) FindByName(ctx context.Context, ownerID, name string) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id AND LOWER(name) = LOWER(@name)
		ORDER BY created_at
		LIMIT 1`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "name": name}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.FindByName: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id
		ORDER BY start_date DESC NULLS LAST, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name        = @name,
		    destination = @destination,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    notes       = @notes,
		    updated_at  = now()
		WHERE owner_id = @owner_id AND id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"owner_id":    trip.OwnerID,
		"name":        trip.Name,
		"destination": trip.Destination,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"notes":       trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE owner_id = @owner_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	const q = `SELECT count(*) FROM trips WHERE owner_id = @owner_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.CountByOwner: %w", err)
	}
	return n, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&id, &t.OwnerID, &t.Name, &t.Destination, &startDate, &endDate,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if startDate.Valid {
		sd := startDate.Time
		t.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}

	return t, nil
}
