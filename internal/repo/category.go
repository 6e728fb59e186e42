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

// CategoryRepo defines the persistence operations for Categories.
// All operations are scoped by ownerID; a category is never visible outside
// its owner.
type CategoryRepo interface {
	// Create inserts a new category and returns the persisted record.
	Create(ctx context.Context, c domain.Category) (domain.Category, error)

	// GetByID retrieves a category by id, scoped to the owner.
	// Returns domain.ErrNotFound if no such category exists for that owner.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Category, error)

	// FindByName retrieves the category whose name matches case-insensitively.
	// Returns domain.ErrNotFound when there is no match. This is the lookup
	// the merge-import engine uses to decide update-vs-create.
	FindByName(ctx context.Context, ownerID, name string) (domain.Category, error)

	// ListByOwner returns all categories for an owner ordered by sort_order, name.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Category, error)

	// Update overwrites the mutable fields and returns the updated record.
	// Returns domain.ErrNotFound if no such category exists for that owner.
	Update(ctx context.Context, c domain.Category) (domain.Category, error)

	// Delete removes a category. Master items referencing it keep existing
	// with a nulled category (FK is ON DELETE SET NULL).
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error

	// CountByOwner returns the number of categories the owner has.
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// pgCategoryRepo is the Postgres implementation of CategoryRepo.
type pgCategoryRepo struct {
	db db
}

// NewCategoryRepo constructs a CategoryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCategoryRepo(db db) CategoryRepo {
	return &pgCategoryRepo{db: db}
}

const categoryColumns = `id, owner_id, name, icon, sort_order, created_at, updated_at`

func (r *pgCategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	const q = `
		INSERT INTO categories (owner_id, name, icon, sort_order)
		VALUES (@owner_id, @name, @icon, @sort_order)
		RETURNING ` + categoryColumns

	args := pgx.NamedArgs{
		"owner_id":   c.OwnerID,
		"name":       c.Name,
		"icon":       c.Icon,
		"sort_order": c.SortOrder,
	}

	result, err := scanCategory(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgCategoryRepo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Category, error) {
	const q = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = @owner_id AND id = @id`

	result, err := scanCategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id}))
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindByName matches on LOWER(name) so "toiletries" and "Toiletries" resolve
// to the same row. If duplicates exist the oldest row wins, keeping repeated
// imports deterministic.
func (r *pgCategoryRepo) FindByName(ctx context.Context, ownerID, name string) (domain.Category, error) {
	const q = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = @owner_id AND LOWER(name) = LOWER(@name)
		ORDER BY created_at
		LIMIT 1`

	result, err := scanCategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "name": name}))
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.FindByName: %w", err)
	}
	return result, nil
}

func (r *pgCategoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Category, error) {
	const q = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = @owner_id
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CategoryRepo.ListByOwner: scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.ListByOwner: rows: %w", err)
	}
	return categories, nil
}

func (r *pgCategoryRepo) Update(ctx context.Context, c domain.Category) (domain.Category, error) {
	const q = `
		UPDATE categories
		SET name       = @name,
		    icon       = @icon,
		    sort_order = @sort_order,
		    updated_at = now()
		WHERE owner_id = @owner_id AND id = @id
		RETURNING ` + categoryColumns

	args := pgx.NamedArgs{
		"id":         c.ID,
		"owner_id":   c.OwnerID,
		"name":       c.Name,
		"icon":       c.Icon,
		"sort_order": c.SortOrder,
	}

	result, err := scanCategory(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgCategoryRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	const q = `DELETE FROM categories WHERE owner_id = @owner_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.CategoryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CategoryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgCategoryRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	const q = `SELECT count(*) FROM categories WHERE owner_id = @owner_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.CategoryRepo.CountByOwner: %w", err)
	}
	return n, nil
}

// scanCategory maps a single database row into a domain.Category.
func scanCategory(s scanner) (domain.Category, error) {
	var (
		c  domain.Category
		id pgtype.UUID
	)
	err := s.Scan(&id, &c.OwnerID, &c.Name, &c.Icon, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrNotFound
		}
		return domain.Category{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
