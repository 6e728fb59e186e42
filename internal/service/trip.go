package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the bag and item repos as well because copying a trip clones its
// whole subtree.
type TripService struct {
	trips   repo.TripRepo
	bags    repo.BagRepo
	items   repo.TripItemRepo
	changes ChangeRecorder
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, bags repo.BagRepo, items repo.TripItemRepo, changes ChangeRecorder) *TripService {
	return &TripService{trips: trips, bags: bags, items: items, changes: changes}
}

// Create validates and persists a new trip.
// Out-of-order dates are swapped, not rejected.
func (s *TripService) Create(ctx context.Context, trip domain.Trip, device string) (domain.Trip, error) {
	if strings.TrimSpace(trip.Name) == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	trip.NormalizeDates()

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	recordChange(s.changes, created.OwnerID, domain.EntityTrip, created.ID.String(), "", domain.ChangeCreate, created, device)
	return created, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips for the owner.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	trips, err := s.trips.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and updates an existing trip.
// Out-of-order dates are swapped, not rejected.
func (s *TripService) Update(ctx context.Context, trip domain.Trip, device string) (domain.Trip, error) {
	if strings.TrimSpace(trip.Name) == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	trip.NormalizeDates()

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	recordChange(s.changes, updated.OwnerID, domain.EntityTrip, updated.ID.String(), "", domain.ChangeUpdate, updated, device)
	return updated, nil
}

// Delete removes a trip along with its bags and items.
func (s *TripService) Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error {
	if err := s.trips.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityTrip, id.String(), "", domain.ChangeDelete, nil, device)
	return nil
}

// Copy clones a trip with all its bags and items under a new name.
//
// Containers force a two-pass item clone: children may be cloned before their
// container, so container references are resolved only after every item
// exists. Each step commits independently — there is no multi-entity
// transaction, so a failure partway through leaves a partially copied trip.
func (s *TripService) Copy(ctx context.Context, ownerID string, tripID uuid.UUID, newName, device string) (domain.Trip, error) {
	if strings.TrimSpace(newName) == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	src, err := s.trips.GetByID(ctx, ownerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Copy: %w", err)
	}

	dst := src
	dst.ID = uuid.UUID{}
	dst.Name = newName
	dst, err = s.trips.Create(ctx, dst)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Copy: create trip: %w", err)
	}

	bags, err := s.bags.ListByTrip(ctx, src.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Copy: list bags: %w", err)
	}
	bagIDs := make(map[uuid.UUID]uuid.UUID, len(bags))
	for _, b := range bags {
		nb := b
		nb.ID = uuid.UUID{}
		nb.TripID = dst.ID
		nb, err = s.bags.Create(ctx, nb)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Copy: copy bag: %w", err)
		}
		bagIDs[b.ID] = nb.ID
	}

	items, err := s.items.ListByTrip(ctx, src.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Copy: list items: %w", err)
	}
	itemIDs := make(map[uuid.UUID]uuid.UUID, len(items))
	for _, it := range items {
		ni := it
		ni.ID = uuid.UUID{}
		ni.TripID = dst.ID
		ni.ContainerItemID = nil // linked in the second pass
		if it.BagID != nil {
			if mapped, ok := bagIDs[*it.BagID]; ok {
				ni.BagID = &mapped
			} else {
				ni.BagID = nil
			}
		}
		ni, err = s.items.Create(ctx, ni)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Copy: copy item: %w", err)
		}
		itemIDs[it.ID] = ni.ID
	}

	for _, it := range items {
		if it.ContainerItemID == nil {
			continue
		}
		parent, ok := itemIDs[*it.ContainerItemID]
		if !ok {
			continue
		}
		clone, err := s.items.GetByID(ctx, dst.ID, itemIDs[it.ID])
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Copy: link container: %w", err)
		}
		clone.ContainerItemID = &parent
		if _, err := s.items.Update(ctx, clone); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Copy: link container: %w", err)
		}
	}

	recordChange(s.changes, dst.OwnerID, domain.EntityTrip, dst.ID.String(), "", domain.ChangeCreate, dst, device)
	return dst, nil
}
