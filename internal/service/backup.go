package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/packzen/backend/internal/backup"
	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// exportConcurrency caps how many trips are assembled in parallel during an
// account export, so a large account does not monopolize the pool.
const exportConcurrency = 4

// BackupService assembles portable backup documents and merges them back
// into a store that may already contain data for the same owner.
type BackupService struct {
	categories repo.CategoryRepo
	masters    repo.MasterItemRepo
	templates  repo.BagTemplateRepo
	trips      repo.TripRepo
	bags       repo.BagRepo
	items      repo.TripItemRepo
	changes    ChangeRecorder
}

// NewBackupService constructs a BackupService backed by the provided repos.
func NewBackupService(
	categories repo.CategoryRepo,
	masters repo.MasterItemRepo,
	templates repo.BagTemplateRepo,
	trips repo.TripRepo,
	bags repo.BagRepo,
	items repo.TripItemRepo,
	changes ChangeRecorder,
) *BackupService {
	return &BackupService{
		categories: categories,
		masters:    masters,
		templates:  templates,
		trips:      trips,
		bags:       bags,
		items:      items,
		changes:    changes,
	}
}

// Export builds a full-account backup document: categories, master items,
// bag templates, and every trip with its bags and items.
// Per-trip subtrees are fetched concurrently; the trip order of the document
// matches the repo's list order regardless of fetch completion order.
func (s *BackupService) Export(ctx context.Context, ownerID string) (*backup.Document, error) {
	categories, err := s.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.Export: %w", err)
	}
	masters, err := s.masters.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.Export: %w", err)
	}
	templates, err := s.templates.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.Export: %w", err)
	}
	trips, err := s.trips.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.Export: %w", err)
	}

	tripSnaps := make([]backup.TripSnapshot, len(trips))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for i, t := range trips {
		g.Go(func() error {
			bags, err := s.bags.ListByTrip(gctx, t.ID)
			if err != nil {
				return err
			}
			items, err := s.items.ListByTrip(gctx, t.ID)
			if err != nil {
				return err
			}
			tripSnaps[i] = backup.TripSnapshot{Trip: t, Bags: bags, Items: items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service.BackupService.Export: %w", err)
	}

	snap := backup.Snapshot{
		Categories:   categories,
		MasterItems:  masters,
		BagTemplates: templates,
		Trips:        tripSnaps,
	}
	return backup.Encode(snap, time.Now()), nil
}

// ExportTrip builds a single-trip backup document.
func (s *BackupService) ExportTrip(ctx context.Context, ownerID string, tripID uuid.UUID) (*backup.Document, error) {
	trip, err := s.trips.GetByID(ctx, ownerID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.ExportTrip: %w", err)
	}
	bags, err := s.bags.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.ExportTrip: %w", err)
	}
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.ExportTrip: %w", err)
	}
	return backup.EncodeTrip(backup.TripSnapshot{Trip: trip, Bags: bags, Items: items}, time.Now()), nil
}

// Import merges a decoded backup document into the owner's data.
//
// Entities are reconciled by name (case-insensitively) rather than inserted
// blindly: a match updates the existing row in place, a miss creates a new
// one, so importing the same document twice yields the same state and
// importing into a non-empty account unions rather than duplicates.
//
// Phases run in dependency order — categories, then master items and bag
// templates, then each trip with its bags, items, and finally container
// links. There is no cross-entity transaction: a failure partway through
// leaves the completed phases in place, and the caller should retry the
// whole import or inspect manually.
func (s *BackupService) Import(ctx context.Context, ownerID, device string, doc *backup.Document) error {
	categoryIDs, err := s.importCategories(ctx, ownerID, device, doc.Categories)
	if err != nil {
		return fmt.Errorf("service.BackupService.Import: categories: %w", err)
	}
	if err := s.importMasterItems(ctx, ownerID, device, doc.MasterItems, categoryIDs); err != nil {
		return fmt.Errorf("service.BackupService.Import: master items: %w", err)
	}
	if err := s.importBagTemplates(ctx, ownerID, device, doc.BagTemplates); err != nil {
		return fmt.Errorf("service.BackupService.Import: bag templates: %w", err)
	}
	for _, rec := range doc.Trips {
		if err := s.importTrip(ctx, ownerID, device, rec); err != nil {
			return fmt.Errorf("service.BackupService.Import: trip %q: %w", rec.Name, err)
		}
	}
	return nil
}

// importCategories reconciles incoming categories and returns the
// lowercase-name → id map the later phases resolve references through.
func (s *BackupService) importCategories(ctx context.Context, ownerID, device string, recs []backup.CategoryRecord) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(recs))
	for _, rec := range recs {
		if rec.Name == "" {
			continue
		}
		existing, err := s.categories.FindByName(ctx, ownerID, rec.Name)
		switch {
		case err == nil:
			existing.Name = rec.Name
			existing.Icon = rec.Icon
			existing.SortOrder = rec.SortOrder
			updated, err := s.categories.Update(ctx, existing)
			if err != nil {
				return nil, err
			}
			ids[strings.ToLower(rec.Name)] = updated.ID
			recordChange(s.changes, ownerID, domain.EntityCategory, updated.ID.String(), "", domain.ChangeUpdate, updated, device)
		case errors.Is(err, domain.ErrNotFound):
			created, err := s.categories.Create(ctx, domain.Category{
				OwnerID:   ownerID,
				Name:      rec.Name,
				Icon:      rec.Icon,
				SortOrder: rec.SortOrder,
			})
			if err != nil {
				return nil, err
			}
			ids[strings.ToLower(rec.Name)] = created.ID
			recordChange(s.changes, ownerID, domain.EntityCategory, created.ID.String(), "", domain.ChangeCreate, created, device)
		default:
			return nil, err
		}
	}
	return ids, nil
}

func (s *BackupService) importMasterItems(ctx context.Context, ownerID, device string, recs []backup.MasterItemRecord, categoryIDs map[string]uuid.UUID) error {
	for _, rec := range recs {
		if rec.Name == "" {
			continue
		}
		// An unresolvable category name degrades to uncategorized.
		var categoryID *uuid.UUID
		if id, ok := categoryIDs[strings.ToLower(rec.CategoryName)]; ok {
			categoryID = &id
		}

		existing, err := s.masters.FindByName(ctx, ownerID, rec.Name)
		switch {
		case err == nil:
			existing.Name = rec.Name
			existing.Description = rec.Description
			existing.DefaultQuantity = rec.DefaultQuantity
			existing.CategoryID = categoryID
			existing.IsContainer = rec.IsContainer
			updated, err := s.masters.Update(ctx, existing)
			if err != nil {
				return err
			}
			recordChange(s.changes, ownerID, domain.EntityMasterItem, updated.ID.String(), "", domain.ChangeUpdate, updated, device)
		case errors.Is(err, domain.ErrNotFound):
			created, err := s.masters.Create(ctx, domain.MasterItem{
				OwnerID:         ownerID,
				Name:            rec.Name,
				Description:     rec.Description,
				DefaultQuantity: rec.DefaultQuantity,
				CategoryID:      categoryID,
				IsContainer:     rec.IsContainer,
			})
			if err != nil {
				return err
			}
			recordChange(s.changes, ownerID, domain.EntityMasterItem, created.ID.String(), "", domain.ChangeCreate, created, device)
		default:
			return err
		}
	}
	return nil
}

func (s *BackupService) importBagTemplates(ctx context.Context, ownerID, device string, recs []backup.BagTemplateRecord) error {
	for _, rec := range recs {
		if rec.Name == "" {
			continue
		}
		existing, err := s.templates.FindByName(ctx, ownerID, rec.Name)
		switch {
		case err == nil:
			existing.Name = rec.Name
			existing.Type = bagTypeOrCustom(rec.Type)
			existing.Color = rec.Color
			existing.SortOrder = rec.SortOrder
			updated, err := s.templates.Update(ctx, existing)
			if err != nil {
				return err
			}
			recordChange(s.changes, ownerID, domain.EntityBagTemplate, updated.ID.String(), "", domain.ChangeUpdate, updated, device)
		case errors.Is(err, domain.ErrNotFound):
			created, err := s.templates.Create(ctx, domain.BagTemplate{
				OwnerID:   ownerID,
				Name:      rec.Name,
				Type:      bagTypeOrCustom(rec.Type),
				Color:     rec.Color,
				SortOrder: rec.SortOrder,
			})
			if err != nil {
				return err
			}
			recordChange(s.changes, ownerID, domain.EntityBagTemplate, created.ID.String(), "", domain.ChangeCreate, created, device)
		default:
			return err
		}
	}
	return nil
}

// importTrip reconciles one trip subtree: the trip row, its bags, its items,
// and finally the container links.
//
// Items are imported in two passes because a container and its children may
// appear in the document in either order, and an item cannot reference a row
// that does not exist yet. Pass one creates or updates every item with a
// null container; pass two resolves container references against the now
// fully-populated trip.
func (s *BackupService) importTrip(ctx context.Context, ownerID, device string, rec backup.TripRecord) error {
	trip, err := s.mergeTrip(ctx, ownerID, rec)
	if err != nil {
		return err
	}

	// Bags first: items reference them. The resolver prefers the synthetic
	// source id over the name, since names are not guaranteed unique in
	// noisy or hand-edited documents.
	bagRefs := newRefResolver()
	for _, br := range rec.Bags {
		if br.Name == "" {
			continue
		}
		bag, err := s.mergeBag(ctx, trip.ID, br)
		if err != nil {
			return err
		}
		bagRefs.add(br.SourceID, br.Name, bag.ID)
	}

	itemRefs := newRefResolver()
	finalItems := make([]domain.TripItem, len(rec.Items))
	containers := make(map[uuid.UUID]bool)
	for i, ir := range rec.Items {
		if ir.Name == "" {
			continue
		}
		var bagID *uuid.UUID
		if id, ok := bagRefs.resolve(ir.BagSourceID, ir.BagName); ok {
			bagID = &id
		}
		item, err := s.mergeItem(ctx, trip.ID, ir, bagID)
		if err != nil {
			return err
		}
		finalItems[i] = item
		containers[item.ID] = item.IsContainer
		// Only containers are name-resolvable: the name fallback for a
		// container reference must land on an item flagged as one.
		if item.IsContainer {
			itemRefs.add(ir.SourceID, ir.Name, item.ID)
		} else {
			itemRefs.add(ir.SourceID, "", item.ID)
		}
	}

	// Container linking pass.
	for i, ir := range rec.Items {
		if ir.ContainerSourceID == "" && ir.ContainerName == "" {
			continue
		}
		child := finalItems[i]
		if child.ID == (uuid.UUID{}) {
			continue
		}
		parentID, ok := itemRefs.resolve(ir.ContainerSourceID, ir.ContainerName)
		if !ok {
			// Unresolvable reference: the item stays loose rather than
			// failing the import.
			continue
		}
		// Structural invariants: skip the link, keep the item. A source-id
		// reference can point at any item in the document, so the target's
		// container flag is checked here too, not only on the name fallback.
		if parentID == child.ID || child.IsContainer || !containers[parentID] {
			continue
		}
		child.ContainerItemID = &parentID
		updated, err := s.items.Update(ctx, child)
		if err != nil {
			return err
		}
		finalItems[i] = updated
	}

	recordChange(s.changes, ownerID, domain.EntityTrip, trip.ID.String(), "", domain.ChangeUpdate, trip, device)
	return nil
}

func (s *BackupService) mergeTrip(ctx context.Context, ownerID string, rec backup.TripRecord) (domain.Trip, error) {
	incoming := domain.Trip{
		OwnerID:     ownerID,
		Name:        rec.Name,
		Destination: rec.Destination,
		StartDate:   backup.ParseDate(rec.StartDate),
		EndDate:     backup.ParseDate(rec.EndDate),
		Notes:       rec.Notes,
	}
	incoming.NormalizeDates()

	existing, err := s.trips.FindByName(ctx, ownerID, rec.Name)
	switch {
	case err == nil:
		incoming.ID = existing.ID
		return s.trips.Update(ctx, incoming)
	case errors.Is(err, domain.ErrNotFound):
		return s.trips.Create(ctx, incoming)
	default:
		return domain.Trip{}, err
	}
}

func (s *BackupService) mergeBag(ctx context.Context, tripID uuid.UUID, rec backup.BagRecord) (domain.Bag, error) {
	incoming := domain.Bag{
		TripID:    tripID,
		Name:      rec.Name,
		Type:      bagTypeOrCustom(rec.Type),
		Color:     rec.Color,
		SortOrder: rec.SortOrder,
	}

	existing, err := s.bags.FindByName(ctx, tripID, rec.Name)
	switch {
	case err == nil:
		incoming.ID = existing.ID
		return s.bags.Update(ctx, incoming)
	case errors.Is(err, domain.ErrNotFound):
		return s.bags.Create(ctx, incoming)
	default:
		return domain.Bag{}, err
	}
}

func (s *BackupService) mergeItem(ctx context.Context, tripID uuid.UUID, rec backup.ItemRecord, bagID *uuid.UUID) (domain.TripItem, error) {
	incoming := domain.TripItem{
		TripID:       tripID,
		BagID:        bagID,
		Name:         rec.Name,
		CategoryName: rec.CategoryName,
		Quantity:     rec.Quantity,
		IsPacked:     rec.IsPacked,
		IsSkipped:    rec.IsSkipped,
		Notes:        rec.Notes,
		IsContainer:  rec.IsContainer,
	}

	existing, err := s.items.FindInBag(ctx, tripID, rec.Name, rec.CategoryName, bagID)
	switch {
	case err == nil:
		incoming.ID = existing.ID
		// Keep an existing container link through the first pass; the
		// linking pass rewrites it if the document says otherwise.
		incoming.ContainerItemID = existing.ContainerItemID
		if incoming.IsContainer {
			incoming.ContainerItemID = nil
		}
		return s.items.Update(ctx, incoming)
	case errors.Is(err, domain.ErrNotFound):
		return s.items.Create(ctx, incoming)
	default:
		return domain.TripItem{}, err
	}
}

// bagTypeOrCustom maps a document bag type onto the enum, degrading unknown
// values to custom instead of failing the import.
func bagTypeOrCustom(s string) domain.BagType {
	t := domain.BagType(s)
	if !t.Valid() {
		return domain.BagTypeCustom
	}
	return t
}

// refResolver resolves a document cross reference to a store id, consulting
// the synthetic source id first and falling back to the name.
type refResolver struct {
	bySource map[string]uuid.UUID
	byName   map[string]uuid.UUID
}

func newRefResolver() *refResolver {
	return &refResolver{
		bySource: make(map[string]uuid.UUID),
		byName:   make(map[string]uuid.UUID),
	}
}

// add registers a resolved entity. Empty keys are skipped, so entities
// without a source id (or without a resolvable name) simply never match on
// that axis.
func (r *refResolver) add(sourceID, name string, id uuid.UUID) {
	if sourceID != "" {
		r.bySource[sourceID] = id
	}
	if name != "" {
		r.byName[strings.ToLower(name)] = id
	}
}

func (r *refResolver) resolve(sourceID, name string) (uuid.UUID, bool) {
	if sourceID != "" {
		if id, ok := r.bySource[sourceID]; ok {
			return id, true
		}
	}
	if name != "" {
		if id, ok := r.byName[strings.ToLower(name)]; ok {
			return id, true
		}
	}
	return uuid.UUID{}, false
}
