package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// TripItemService implements business logic for packing-list items:
// quantity merging of duplicates, bag assignment, and the container rules
// (no self-reference, exactly one nesting level).
type TripItemService struct {
	trips   repo.TripRepo
	bags    repo.BagRepo
	items   repo.TripItemRepo
	changes ChangeRecorder
}

// NewTripItemService constructs a TripItemService backed by the provided repos.
func NewTripItemService(trips repo.TripRepo, bags repo.BagRepo, items repo.TripItemRepo, changes ChangeRecorder) *TripItemService {
	return &TripItemService{trips: trips, bags: bags, items: items, changes: changes}
}

// Create adds an item to a trip's packing list.
//
// When mergeDuplicates is true (the default for API callers) and an item with
// the same (name, category, bag, container) tuple already exists in the trip
// — compared case-insensitively — the existing item's quantity is increased
// by the new quantity instead of inserting a duplicate row.
func (s *TripItemService) Create(ctx context.Context, ownerID string, item domain.TripItem, mergeDuplicates bool, device string) (domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, item.TripID); err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Create: %w", err)
	}
	if err := s.validateItem(ctx, &item); err != nil {
		return domain.TripItem{}, err
	}

	if mergeDuplicates {
		existing, err := s.items.FindMatch(ctx, item.TripID, item.Name, item.CategoryName, item.BagID, item.ContainerItemID)
		switch {
		case err == nil:
			existing.Quantity += item.Quantity
			merged, err := s.items.Update(ctx, existing)
			if err != nil {
				return domain.TripItem{}, fmt.Errorf("service.TripItemService.Create: merge: %w", err)
			}
			recordChange(s.changes, ownerID, domain.EntityTripItem, merged.ID.String(), merged.TripID.String(), domain.ChangeUpdate, merged, device)
			return merged, nil
		case !errors.Is(err, domain.ErrNotFound):
			return domain.TripItem{}, fmt.Errorf("service.TripItemService.Create: %w", err)
		}
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Create: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityTripItem, created.ID.String(), created.TripID.String(), domain.ChangeCreate, created, device)
	return created, nil
}

// GetByID returns a single item by ID, scoped to the given trip.
func (s *TripItemService) GetByID(ctx context.Context, ownerID string, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.GetByID: %w", err)
	}
	item, err := s.items.GetByID(ctx, tripID, itemID)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.GetByID: %w", err)
	}
	return item, nil
}

// ListByTrip returns all items for a trip.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripItemService) ListByTrip(ctx context.Context, ownerID string, tripID uuid.UUID) ([]domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return nil, fmt.Errorf("service.TripItemService.ListByTrip: %w", err)
	}
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripItemService.ListByTrip: %w", err)
	}
	if items == nil {
		return []domain.TripItem{}, nil
	}
	return items, nil
}

// Update validates and persists changes to an existing item.
func (s *TripItemService) Update(ctx context.Context, ownerID string, item domain.TripItem, device string) (domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, item.TripID); err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Update: %w", err)
	}
	if err := s.validateItem(ctx, &item); err != nil {
		return domain.TripItem{}, err
	}
	updated, err := s.items.Update(ctx, item)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Update: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityTripItem, updated.ID.String(), updated.TripID.String(), domain.ChangeUpdate, updated, device)
	return updated, nil
}

// MoveToContainer puts an item inside a container item, or removes it from
// its container when containerID is nil.
//
// The move is rejected when the item is itself a container (containers are
// exactly one level deep), when item and target are the same row, or when
// the target is not flagged as a container.
func (s *TripItemService) MoveToContainer(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, containerID *uuid.UUID, device string) (domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.MoveToContainer: %w", err)
	}
	item, err := s.items.GetByID(ctx, tripID, itemID)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.MoveToContainer: %w", err)
	}

	if containerID != nil {
		if *containerID == itemID {
			return domain.TripItem{}, fmt.Errorf("%w: an item cannot contain itself", domain.ErrValidation)
		}
		if item.IsContainer {
			return domain.TripItem{}, fmt.Errorf("%w: containers cannot be nested", domain.ErrValidation)
		}
		target, err := s.items.GetByID(ctx, tripID, *containerID)
		if err != nil {
			return domain.TripItem{}, fmt.Errorf("service.TripItemService.MoveToContainer: %w", err)
		}
		if !target.IsContainer {
			return domain.TripItem{}, fmt.Errorf("%w: target item is not a container", domain.ErrValidation)
		}
	}

	item.ContainerItemID = containerID
	updated, err := s.items.Update(ctx, item)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.MoveToContainer: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityTripItem, updated.ID.String(), updated.TripID.String(), domain.ChangeUpdate, updated, device)
	return updated, nil
}

// Delete removes an item. If it was a container, its children become loose
// (they keep their bag, the container reference is nulled).
func (s *TripItemService) Delete(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, device string) error {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return fmt.Errorf("service.TripItemService.Delete: %w", err)
	}
	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		return fmt.Errorf("service.TripItemService.Delete: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityTripItem, itemID.String(), tripID.String(), domain.ChangeDelete, nil, device)
	return nil
}

// validateItem enforces the rules common to Create and Update. It normalizes
// a missing quantity to 1 and checks the container invariants against the
// current state of the trip.
func (s *TripItemService) validateItem(ctx context.Context, item *domain.TripItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if item.BagID != nil {
		if _, err := s.bags.GetByID(ctx, item.TripID, *item.BagID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: bag does not belong to this trip", domain.ErrValidation)
			}
			return fmt.Errorf("service.TripItemService: check bag: %w", err)
		}
	}

	if item.ContainerItemID == nil {
		return nil
	}
	if *item.ContainerItemID == item.ID {
		return fmt.Errorf("%w: an item cannot contain itself", domain.ErrValidation)
	}
	if item.IsContainer {
		return fmt.Errorf("%w: containers cannot be nested", domain.ErrValidation)
	}
	target, err := s.items.GetByID(ctx, item.TripID, *item.ContainerItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: container item does not exist in this trip", domain.ErrValidation)
		}
		return fmt.Errorf("service.TripItemService: check container: %w", err)
	}
	if !target.IsContainer {
		return fmt.Errorf("%w: target item is not a container", domain.ErrValidation)
	}
	return nil
}
