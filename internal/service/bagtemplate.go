package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// BagTemplateService implements business logic for bag templates.
type BagTemplateService struct {
	templates repo.BagTemplateRepo
	changes   ChangeRecorder
}

// NewBagTemplateService constructs a BagTemplateService backed by the provided repo.
func NewBagTemplateService(templates repo.BagTemplateRepo, changes ChangeRecorder) *BagTemplateService {
	return &BagTemplateService{templates: templates, changes: changes}
}

// Create validates and persists a new bag template.
func (s *BagTemplateService) Create(ctx context.Context, bt domain.BagTemplate, device string) (domain.BagTemplate, error) {
	if err := validateBagTemplate(&bt); err != nil {
		return domain.BagTemplate{}, err
	}
	created, err := s.templates.Create(ctx, bt)
	if err != nil {
		return domain.BagTemplate{}, fmt.Errorf("service.BagTemplateService.Create: %w", err)
	}
	recordChange(s.changes, created.OwnerID, domain.EntityBagTemplate, created.ID.String(), "", domain.ChangeCreate, created, device)
	return created, nil
}

// GetByID returns a single bag template by ID.
func (s *BagTemplateService) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.BagTemplate, error) {
	bt, err := s.templates.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.BagTemplate{}, fmt.Errorf("service.BagTemplateService.GetByID: %w", err)
	}
	return bt, nil
}

// List returns all bag templates for the owner.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BagTemplateService) List(ctx context.Context, ownerID string) ([]domain.BagTemplate, error) {
	templates, err := s.templates.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.BagTemplateService.List: %w", err)
	}
	if templates == nil {
		return []domain.BagTemplate{}, nil
	}
	return templates, nil
}

// Update validates and persists changes to an existing bag template.
func (s *BagTemplateService) Update(ctx context.Context, bt domain.BagTemplate, device string) (domain.BagTemplate, error) {
	if err := validateBagTemplate(&bt); err != nil {
		return domain.BagTemplate{}, err
	}
	updated, err := s.templates.Update(ctx, bt)
	if err != nil {
		return domain.BagTemplate{}, fmt.Errorf("service.BagTemplateService.Update: %w", err)
	}
	recordChange(s.changes, updated.OwnerID, domain.EntityBagTemplate, updated.ID.String(), "", domain.ChangeUpdate, updated, device)
	return updated, nil
}

// Delete removes a bag template.
func (s *BagTemplateService) Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error {
	if err := s.templates.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.BagTemplateService.Delete: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityBagTemplate, id.String(), "", domain.ChangeDelete, nil, device)
	return nil
}

// validateBagTemplate checks the name and defaults an empty bag type to custom.
func validateBagTemplate(bt *domain.BagTemplate) error {
	if strings.TrimSpace(bt.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if bt.Type == "" {
		bt.Type = domain.BagTypeCustom
	}
	if !bt.Type.Valid() {
		return fmt.Errorf("%w: unknown bag type %q", domain.ErrValidation, bt.Type)
	}
	return nil
}
