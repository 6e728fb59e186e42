package service

import (
	"context"
	"fmt"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// AccountStats holds per-owner entity counts. Surrounding code uses these
// for plan-limit checks; here they only feed the stats endpoint.
type AccountStats struct {
	Categories   int64 `json:"categories"`
	MasterItems  int64 `json:"master_items"`
	BagTemplates int64 `json:"bag_templates"`
	Trips        int64 `json:"trips"`
}

// AccountService implements owner-level operations that span every entity type.
type AccountService struct {
	categories repo.CategoryRepo
	masters    repo.MasterItemRepo
	templates  repo.BagTemplateRepo
	trips      repo.TripRepo
	changes    ChangeRecorder
}

// NewAccountService constructs an AccountService backed by the provided repos.
func NewAccountService(
	categories repo.CategoryRepo,
	masters repo.MasterItemRepo,
	templates repo.BagTemplateRepo,
	trips repo.TripRepo,
	changes ChangeRecorder,
) *AccountService {
	return &AccountService{
		categories: categories,
		masters:    masters,
		templates:  templates,
		trips:      trips,
		changes:    changes,
	}
}

// Stats returns the owner's entity counts.
func (s *AccountService) Stats(ctx context.Context, ownerID string) (AccountStats, error) {
	var stats AccountStats
	var err error

	if stats.Categories, err = s.categories.CountByOwner(ctx, ownerID); err != nil {
		return AccountStats{}, fmt.Errorf("service.AccountService.Stats: %w", err)
	}
	if stats.MasterItems, err = s.masters.CountByOwner(ctx, ownerID); err != nil {
		return AccountStats{}, fmt.Errorf("service.AccountService.Stats: %w", err)
	}
	if stats.BagTemplates, err = s.templates.CountByOwner(ctx, ownerID); err != nil {
		return AccountStats{}, fmt.Errorf("service.AccountService.Stats: %w", err)
	}
	if stats.Trips, err = s.trips.CountByOwner(ctx, ownerID); err != nil {
		return AccountStats{}, fmt.Errorf("service.AccountService.Stats: %w", err)
	}
	return stats, nil
}

// DeleteAll removes every entity the owner has: trips (with their bags and
// items), then categories, master items, and bag templates.
//
// Each delete commits independently — there is no multi-entity transaction,
// so a failure partway through leaves a partially cleared account. The error
// is returned and the caller decides whether to retry.
func (s *AccountService) DeleteAll(ctx context.Context, ownerID, device string) error {
	trips, err := s.trips.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("service.AccountService.DeleteAll: %w", err)
	}
	for _, t := range trips {
		if err := s.trips.Delete(ctx, ownerID, t.ID); err != nil {
			return fmt.Errorf("service.AccountService.DeleteAll: trip %s: %w", t.ID, err)
		}
		recordChange(s.changes, ownerID, domain.EntityTrip, t.ID.String(), "", domain.ChangeDelete, nil, device)
	}

	categories, err := s.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("service.AccountService.DeleteAll: %w", err)
	}
	for _, c := range categories {
		if err := s.categories.Delete(ctx, ownerID, c.ID); err != nil {
			return fmt.Errorf("service.AccountService.DeleteAll: category %s: %w", c.ID, err)
		}
		recordChange(s.changes, ownerID, domain.EntityCategory, c.ID.String(), "", domain.ChangeDelete, nil, device)
	}

	masters, err := s.masters.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("service.AccountService.DeleteAll: %w", err)
	}
	for _, m := range masters {
		if err := s.masters.Delete(ctx, ownerID, m.ID); err != nil {
			return fmt.Errorf("service.AccountService.DeleteAll: master item %s: %w", m.ID, err)
		}
		recordChange(s.changes, ownerID, domain.EntityMasterItem, m.ID.String(), "", domain.ChangeDelete, nil, device)
	}

	templates, err := s.templates.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("service.AccountService.DeleteAll: %w", err)
	}
	for _, bt := range templates {
		if err := s.templates.Delete(ctx, ownerID, bt.ID); err != nil {
			return fmt.Errorf("service.AccountService.DeleteAll: bag template %s: %w", bt.ID, err)
		}
		recordChange(s.changes, ownerID, domain.EntityBagTemplate, bt.ID.String(), "", domain.ChangeDelete, nil, device)
	}

	return nil
}
