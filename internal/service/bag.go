package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// BagService implements business logic for Bag operations.
// It holds the trip repo because every bag operation verifies the parent
// trip belongs to the caller before touching the bag.
type BagService struct {
	trips   repo.TripRepo
	bags    repo.BagRepo
	changes ChangeRecorder
}

// NewBagService constructs a BagService backed by the provided repos.
func NewBagService(trips repo.TripRepo, bags repo.BagRepo, changes ChangeRecorder) *BagService {
	return &BagService{trips: trips, bags: bags, changes: changes}
}

// Create validates the bag, verifies the parent trip exists for the owner,
// then persists.
func (s *BagService) Create(ctx context.Context, ownerID string, bag domain.Bag, device string) (domain.Bag, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, bag.TripID); err != nil {
		return domain.Bag{}, fmt.Errorf("service.BagService.Create: %w", err)
	}
	if err := validateBag(&bag); err != nil {
		return domain.Bag{}, err
	}
	created, err := s.bags.Create(ctx, bag)
	if err != nil {
		return domain.Bag{}, fmt.Errorf("service.BagService.Create: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityBag, created.ID.String(), created.TripID.String(), domain.ChangeCreate, created, device)
	return created, nil
}

// GetByID returns a single bag by ID, scoped to the given trip.
func (s *BagService) GetByID(ctx context.Context, ownerID string, tripID, bagID uuid.UUID) (domain.Bag, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return domain.Bag{}, fmt.Errorf("service.BagService.GetByID: %w", err)
	}
	bag, err := s.bags.GetByID(ctx, tripID, bagID)
	if err != nil {
		return domain.Bag{}, fmt.Errorf("service.BagService.GetByID: %w", err)
	}
	return bag, nil
}

// ListByTrip returns all bags for a trip.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BagService) ListByTrip(ctx context.Context, ownerID string, tripID uuid.UUID) ([]domain.Bag, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return nil, fmt.Errorf("service.BagService.ListByTrip: %w", err)
	}
	bags, err := s.bags.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BagService.ListByTrip: %w", err)
	}
	if bags == nil {
		return []domain.Bag{}, nil
	}
	return bags, nil
}

// Update validates and persists changes to an existing bag.
func (s *BagService) Update(ctx context.Context, ownerID string, bag domain.Bag, device string) (domain.Bag, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, bag.TripID); err != nil {
		return domain.Bag{}, fmt.Errorf("service.BagService.Update: %w", err)
	}
	if err := validateBag(&bag); err != nil {
		return domain.Bag{}, err
	}
	updated, err := s.bags.Update(ctx, bag)
	if err != nil {
		return domain.Bag{}, fmt.Errorf("service.BagService.Update: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityBag, updated.ID.String(), updated.TripID.String(), domain.ChangeUpdate, updated, device)
	return updated, nil
}

// Delete removes a bag. Items assigned to it become unassigned.
func (s *BagService) Delete(ctx context.Context, ownerID string, tripID, bagID uuid.UUID, device string) error {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return fmt.Errorf("service.BagService.Delete: %w", err)
	}
	if err := s.bags.Delete(ctx, tripID, bagID); err != nil {
		return fmt.Errorf("service.BagService.Delete: %w", err)
	}
	recordChange(s.changes, ownerID, domain.EntityBag, bagID.String(), tripID.String(), domain.ChangeDelete, nil, device)
	return nil
}

// validateBag checks the name and defaults an empty bag type to custom.
func validateBag(bag *domain.Bag) error {
	if strings.TrimSpace(bag.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if bag.Type == "" {
		bag.Type = domain.BagTypeCustom
	}
	if !bag.Type.Valid() {
		return fmt.Errorf("%w: unknown bag type %q", domain.ErrValidation, bag.Type)
	}
	return nil
}
