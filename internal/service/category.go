package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// CategoryService implements business logic for Category operations.
type CategoryService struct {
	categories repo.CategoryRepo
	changes    ChangeRecorder
}

// NewCategoryService constructs a CategoryService backed by the provided repo.
func NewCategoryService(categories repo.CategoryRepo, changes ChangeRecorder) *CategoryService {
	return &CategoryService{categories: categories, changes: changes}
}

// Create validates and persists a new category.
func (s *CategoryService) Create(ctx context.Context, c domain.Category, device string) (domain.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Category{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return domain.Category{}, fmt.Errorf("service.CategoryService.Create: %w", err)
	}
	recordChange(s.changes, created.OwnerID, domain.EntityCategory, created.ID.String(), "", domain.ChangeCreate, created, device)
	return created, nil
}

// GetByID returns a single category by ID.
func (s *CategoryService) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Category, error) {
	c, err := s.categories.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("service.CategoryService.GetByID: %w", err)
	}
	return c, nil
}

// List returns all categories for the owner.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CategoryService) List(ctx context.Context, ownerID string) ([]domain.Category, error) {
	categories, err := s.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.List: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// Update validates and persists changes to an existing category.
func (s *CategoryService) Update(ctx context.Context, c domain.Category, device string) (domain.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Category{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	updated, err := s.categories.Update(ctx, c)
	if err != nil {
		return domain.Category{}, fmt.Errorf("service.CategoryService.Update: %w", err)
	}
	recordChange(s.changes, updated.OwnerID, domain.EntityCategory, updated.ID.String(), "", domain.ChangeUpdate, updated, device)
	return updated, nil
}

// Delete removes a category. Master items referencing it become uncategorized.
func (s *CategoryService) Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error {
	if err := s.categories.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.CategoryService.Delete: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityCategory, id.String(), "", domain.ChangeDelete, nil, device)
	return nil
}
