package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// MasterItemService implements business logic for the master catalog.
type MasterItemService struct {
	items   repo.MasterItemRepo
	changes ChangeRecorder
}

// NewMasterItemService constructs a MasterItemService backed by the provided repo.
func NewMasterItemService(items repo.MasterItemRepo, changes ChangeRecorder) *MasterItemService {
	return &MasterItemService{items: items, changes: changes}
}

// Create validates and persists a new master item.
func (s *MasterItemService) Create(ctx context.Context, m domain.MasterItem, device string) (domain.MasterItem, error) {
	if err := validateMasterItem(m); err != nil {
		return domain.MasterItem{}, err
	}
	created, err := s.items.Create(ctx, m)
	if err != nil {
		return domain.MasterItem{}, fmt.Errorf("service.MasterItemService.Create: %w", err)
	}
	recordChange(s.changes, created.OwnerID, domain.EntityMasterItem, created.ID.String(), "", domain.ChangeCreate, created, device)
	return created, nil
}

// GetByID returns a single master item by ID.
func (s *MasterItemService) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.MasterItem, error) {
	m, err := s.items.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.MasterItem{}, fmt.Errorf("service.MasterItemService.GetByID: %w", err)
	}
	return m, nil
}

// List returns all master items for the owner.
// Always returns a non-nil slice so callers can safely range over it.
func (s *MasterItemService) List(ctx context.Context, ownerID string) ([]domain.MasterItem, error) {
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.MasterItemService.List: %w", err)
	}
	if items == nil {
		return []domain.MasterItem{}, nil
	}
	return items, nil
}

// Update validates and persists changes to an existing master item.
func (s *MasterItemService) Update(ctx context.Context, m domain.MasterItem, device string) (domain.MasterItem, error) {
	if err := validateMasterItem(m); err != nil {
		return domain.MasterItem{}, err
	}
	updated, err := s.items.Update(ctx, m)
	if err != nil {
		return domain.MasterItem{}, fmt.Errorf("service.MasterItemService.Update: %w", err)
	}
	recordChange(s.changes, updated.OwnerID, domain.EntityMasterItem, updated.ID.String(), "", domain.ChangeUpdate, updated, device)
	return updated, nil
}

// Delete removes a master item from the catalog. Existing trip items are
// untouched — they carry denormalized names.
func (s *MasterItemService) Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error {
	if err := s.items.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.MasterItemService.Delete: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityMasterItem, id.String(), "", domain.ChangeDelete, nil, device)
	return nil
}

// validateMasterItem enforces business rules common to Create and Update.
func validateMasterItem(m domain.MasterItem) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if m.DefaultQuantity < 1 {
		return fmt.Errorf("%w: default_quantity must be at least 1", domain.ErrValidation)
	}
	return nil
}
