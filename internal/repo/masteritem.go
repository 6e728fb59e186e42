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

// MasterItemRepo defines the persistence operations for the master catalog.
type MasterItemRepo interface {
	// Create inserts a new master item and returns the persisted record.
	Create(ctx context.Context, m domain.MasterItem) (domain.MasterItem, error)

	// GetByID retrieves a master item by id, scoped to the owner.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.MasterItem, error)

	// FindByName retrieves the master item whose name matches case-insensitively.
	// Returns domain.ErrNotFound when there is no match.
	FindByName(ctx context.Context, ownerID, name string) (domain.MasterItem, error)

	// ListByOwner returns all master items for an owner ordered by name.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.MasterItem, error)

	// Update overwrites the mutable fields and returns the updated record.
	Update(ctx context.Context, m domain.MasterItem) (domain.MasterItem, error)

	// Delete removes a master item. Trip items are unaffected — they carry
	// denormalized names, not references to the catalog.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// CountByOwner returns the number of master items the owner has.
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// pgMasterItemRepo is the Postgres implementation of MasterItemRepo.
type pgMasterItemRepo struct {
	db db
}

// NewMasterItemRepo constructs a MasterItemRepo backed by the provided db connection.
func NewMasterItemRepo(db db) MasterItemRepo {
	return &pgMasterItemRepo{db: db}
}

const masterItemColumns = `id, owner_id, name, description, default_quantity, category_id, is_container, created_at, updated_at`

func (r *pgMasterItemRepo) Create(ctx context.Context, m domain.MasterItem) (domain.MasterItem, error) {
	const q = `
		INSERT INTO master_items (owner_id, name, description, default_quantity, category_id, is_container)
		VALUES (@owner_id, @name, @description, @default_quantity, @category_id, @is_container)
		RETURNING ` + masterItemColumns

	args := pgx.NamedArgs{
		"owner_id":         m.OwnerID,
		"name":             m.Name,
		"description":      m.Description,
		"default_quantity": m.DefaultQuantity,
		"category_id":      m.CategoryID, // nil becomes NULL
		"is_container":     m.IsContainer,
	}

	result, err := scanMasterItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.MasterItem{}, fmt.Errorf("repo.MasterItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMasterItemRepo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.MasterItem, error) {
	const q = `
		SELECT ` + masterItemColumns + `
		FROM master_items
		WHERE owner_id = @owner_id AND id = @id`

	result, err := scanMasterItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id}))
	if err != nil {
		return domain.MasterItem{}, fmt.Errorf("repo.MasterItemRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgMasterItemRepo) FindByName(ctx context.Context, ownerID, name string) (domain.MasterItem, error) {
	const q = `
		SELECT ` + masterItemColumns + `
		FROM master_items
		WHERE owner_id = @owner_id AND LOWER(name) = LOWER(@name)
		ORDER BY created_at
		LIMIT 1`

	result, err := scanMasterItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "name": name}))
	if err != nil {
		return domain.MasterItem{}, fmt.Errorf("repo.MasterItemRepo.FindByName: %w", err)
	}
	return result, nil
}

func (r *pgMasterItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.MasterItem, error) {
	const q = `
		SELECT ` + masterItemColumns + `
		FROM master_items
		WHERE owner_id = @owner_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.MasterItemRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	items := []domain.MasterItem{}
	for rows.Next() {
		m, err := scanMasterItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MasterItemRepo.ListByOwner: scan: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MasterItemRepo.ListByOwner: rows: %w", err)
	}
	return items, nil
}

func (r *pgMasterItemRepo) Update(ctx context.Context, m domain.MasterItem) (domain.MasterItem, error) {
	const q = `
		UPDATE master_items
		SET name             = @name,
		    description      = @description,
		    default_quantity = @default_quantity,
		    category_id      = @category_id,
		    is_container     = @is_container,
		    updated_at       = now()
		WHERE owner_id = @owner_id AND id = @id
		RETURNING ` + masterItemColumns

	args := pgx.NamedArgs{
		"id":               m.ID,
		"owner_id":         m.OwnerID,
		"name":             m.Name,
		"description":      m.Description,
		"default_quantity": m.DefaultQuantity,
		"category_id":      m.CategoryID,
		"is_container":     m.IsContainer,
	}

	result, err := scanMasterItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.MasterItem{}, fmt.Errorf("repo.MasterItemRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgMasterItemRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	const q = `DELETE FROM master_items WHERE owner_id = @owner_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.MasterItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MasterItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgMasterItemRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	const q = `SELECT count(*) FROM master_items WHERE owner_id = @owner_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.MasterItemRepo.CountByOwner: %w", err)
	}
	return n, nil
}

// scanMasterItem maps a single database row into a domain.MasterItem.
// It handles the UUID and nullable category_id conversions.
func scanMasterItem(s scanner) (domain.MasterItem, error) {
	var (
		m          domain.MasterItem
		id         pgtype.UUID
		categoryID pgtype.UUID
	)
	err := s.Scan(&id, &m.OwnerID, &m.Name, &m.Description, &m.DefaultQuantity,
		&categoryID, &m.IsContainer, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MasterItem{}, domain.ErrNotFound
		}
		return domain.MasterItem{}, err
	}
	m.ID = uuid.UUID(id.Bytes)
	if categoryID.Valid {
		cid := uuid.UUID(categoryID.Bytes)
		m.CategoryID = &cid
	}
	return m, nil
}
