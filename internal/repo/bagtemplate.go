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

// BagTemplateRepo defines the persistence operations for bag templates.
type BagTemplateRepo interface {
	Create(ctx context.Context, bt domain.BagTemplate) (domain.BagTemplate, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.BagTemplate, error)

	// FindByName retrieves the template whose name matches case-insensitively.
	// Returns domain.ErrNotFound when there is no match.
	FindByName(ctx context.Context, ownerID, name string) (domain.BagTemplate, error)

	ListByOwner(ctx context.Context, ownerID string) ([]domain.BagTemplate, error)
	Update(ctx context.Context, bt domain.BagTemplate) (domain.BagTemplate, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// pgBagTemplateRepo is the Postgres implementation of BagTemplateRepo.
type pgBagTemplateRepo struct {
	db db
}

// NewBagTemplateRepo constructs a BagTemplateRepo backed by the provided db connection.
func NewBagTemplateRepo(db db) BagTemplateRepo {
	return &pgBagTemplateRepo{db: db}
}

const bagTemplateColumns = `id, owner_id, name, bag_type, color, sort_order, created_at, updated_at`

func (r *pgBagTemplateRepo) Create(ctx context.Context, bt domain.BagTemplate) (domain.BagTemplate, error) {
	const q = `
		INSERT INTO bag_templates (owner_id, name, bag_type, color, sort_order)
		VALUES (@owner_id, @name, @bag_type, @color, @sort_order)
		RETURNING ` + bagTemplateColumns

	args := pgx.NamedArgs{
		"owner_id":   bt.OwnerID,
		"name":       bt.Name,
		"bag_type":   string(bt.Type),
		"color":      bt.Color,
		"sort_order": bt.SortOrder,
	}

	result, err := scanBagTemplate(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.BagTemplate{}, fmt.Errorf("repo.BagTemplateRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBagTemplateRepo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.BagTemplate, error) {
	const q = `
		SELECT ` + bagTemplateColumns + `
		FROM bag_templates
		WHERE owner_id = @owner_id AND id = @id`

	result, err := scanBagTemplate(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id}))
	if err != nil {
		return domain.BagTemplate{}, fmt.Errorf("repo.BagTemplateRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBagTemplateRepo) FindByName(ctx context.Context, ownerID, name string) (domain.BagTemplate, error) {
	const q = `
		SELECT ` + bagTemplateColumns + `
		FROM bag_templates
		WHERE owner_id = @owner_id AND LOWER(name) = LOWER(@name)
		ORDER BY created_at
		LIMIT 1`

	result, err := scanBagTemplate(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "name": name}))
	if err != nil {
		return domain.BagTemplate{}, fmt.Errorf("repo.BagTemplateRepo.FindByName: %w", err)
	}
	return result, nil
}

func (r *pgBagTemplateRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.BagTemplate, error) {
	const q = `
		SELECT ` + bagTemplateColumns + `
		FROM bag_templates
		WHERE owner_id = @owner_id
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.BagTemplateRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	templates := []domain.BagTemplate{}
	for rows.Next() {
		bt, err := scanBagTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BagTemplateRepo.ListByOwner: scan: %w", err)
		}
		templates = append(templates, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BagTemplateRepo.ListByOwner: rows: %w", err)
	}
	return templates, nil
}

func (r *pgBagTemplateRepo) Update(ctx context.Context, bt domain.BagTemplate) (domain.BagTemplate, error) {
	const q = `
		UPDATE bag_templates
		SET name       = @name,
		    bag_type   = @bag_type,
		    color      = @color,
		    sort_order = @sort_order,
		    updated_at = now()
		WHERE owner_id = @owner_id AND id = @id
		RETURNING ` + bagTemplateColumns

	args := pgx.NamedArgs{
		"id":         bt.ID,
		"owner_id":   bt.OwnerID,
		"name":       bt.Name,
		"bag_type":   string(bt.Type),
		"color":      bt.Color,
		"sort_order": bt.SortOrder,
	}

	result, err := scanBagTemplate(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.BagTemplate{}, fmt.Errorf("repo.BagTemplateRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgBagTemplateRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	const q = `DELETE FROM bag_templates WHERE owner_id = @owner_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.BagTemplateRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BagTemplateRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgBagTemplateRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	const q = `SELECT count(*) FROM bag_templates WHERE owner_id = @owner_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.BagTemplateRepo.CountByOwner: %w", err)
	}
	return n, nil
}

// scanBagTemplate maps a single database row into a domain.BagTemplate.
func scanBagTemplate(s scanner) (domain.BagTemplate, error) {
	var (
		bt      domain.BagTemplate
		id      pgtype.UUID
		bagType string
	)
	err := s.Scan(&id, &bt.OwnerID, &bt.Name, &bagType, &bt.Color, &bt.SortOrder, &bt.CreatedAt, &bt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BagTemplate{}, domain.ErrNotFound
		}
		return domain.BagTemplate{}, err
	}
	bt.ID = uuid.UUID(id.Bytes)
	bt.Type = domain.BagType(bagType)
	return bt, nil
}
