package service_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/repo"
)

// The fakes below are stateful in-memory repo implementations. The merge
// semantics of import and item creation depend on what earlier calls stored,
// so function-field mocks would push all the bookkeeping into every test;
// a shared map-backed fake keeps the tests about behavior instead.

// ---- change recorder -------------------------------------------------------

// recorderFake collects entries synchronously so tests can assert on what a
// mutation recorded without sleeping.
type recorderFake struct {
	entries []domain.ChangeEntry
}

func (r *recorderFake) Record(e domain.ChangeEntry) {
	r.entries = append(r.entries, e)
}

// byAction filters recorded entries by action.
func (r *recorderFake) byAction(a domain.ChangeAction) []domain.ChangeEntry {
	var out []domain.ChangeEntry
	for _, e := range r.entries {
		if e.Action == a {
			out = append(out, e)
		}
	}
	return out
}

// ---- categories ------------------------------------------------------------

type categoryRepoFake struct {
	rows []domain.Category
}

var _ repo.CategoryRepo = (*categoryRepoFake)(nil)

func (f *categoryRepoFake) Create(_ context.Context, c domain.Category) (domain.Category, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *categoryRepoFake) GetByID(_ context.Context, ownerID string, id uuid.UUID) (domain.Category, error) {
	for _, c := range f.rows {
		if c.OwnerID == ownerID && c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

func (f *categoryRepoFake) FindByName(_ context.Context, ownerID, name string) (domain.Category, error) {
	for _, c := range f.rows {
		if c.OwnerID == ownerID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

func (f *categoryRepoFake) ListByOwner(_ context.Context, ownerID string) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.rows {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *categoryRepoFake) Update(_ context.Context, c domain.Category) (domain.Category, error) {
	for i, row := range f.rows {
		if row.ID == c.ID {
			c.OwnerID = row.OwnerID
			c.CreatedAt = row.CreatedAt
			c.UpdatedAt = time.Now()
			f.rows[i] = c
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

func (f *categoryRepoFake) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	for i, c := range f.rows {
		if c.OwnerID == ownerID && c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *categoryRepoFake) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	list, _ := f.ListByOwner(context.Background(), ownerID)
	return int64(len(list)), nil
}

// ---- master items ----------------------------------------------------------

type masterItemRepoFake struct {
	rows []domain.MasterItem
}

var _ repo.MasterItemRepo = (*masterItemRepoFake)(nil)

func (f *masterItemRepoFake) Create(_ context.Context, m domain.MasterItem) (domain.MasterItem, error) {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	f.rows = append(f.rows, m)
	return m, nil
}

func (f *masterItemRepoFake) GetByID(_ context.Context, ownerID string, id uuid.UUID) (domain.MasterItem, error) {
	for _, m := range f.rows {
		if m.OwnerID == ownerID && m.ID == id {
			return m, nil
		}
	}
	return domain.MasterItem{}, domain.ErrNotFound
}

func (f *masterItemRepoFake) FindByName(_ context.Context, ownerID, name string) (domain.MasterItem, error) {
	for _, m := range f.rows {
		if m.OwnerID == ownerID && strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return domain.MasterItem{}, domain.ErrNotFound
}

func (f *masterItemRepoFake) ListByOwner(_ context.Context, ownerID string) ([]domain.MasterItem, error) {
	var out []domain.MasterItem
	for _, m := range f.rows {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *masterItemRepoFake) Update(_ context.Context, m domain.MasterItem) (domain.MasterItem, error) {
	for i, row := range f.rows {
		if row.ID == m.ID {
			m.OwnerID = row.OwnerID
			m.CreatedAt = row.CreatedAt
			m.UpdatedAt = time.Now()
			f.rows[i] = m
			return m, nil
		}
	}
	return domain.MasterItem{}, domain.ErrNotFound
}

func (f *masterItemRepoFake) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	for i, m := range f.rows {
		if m.OwnerID == ownerID && m.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *masterItemRepoFake) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	list, _ := f.ListByOwner(context.Background(), ownerID)
	return int64(len(list)), nil
}

// ---- bag templates ---------------------------------------------------------

type bagTemplateRepoFake struct {
	rows []domain.BagTemplate
}

var _ repo.BagTemplateRepo = (*bagTemplateRepoFake)(nil)

func (f *bagTemplateRepoFake) Create(_ context.Context, bt domain.BagTemplate) (domain.BagTemplate, error) {
	bt.ID = uuid.New()
	bt.CreatedAt = time.Now()
	bt.UpdatedAt = bt.CreatedAt
	f.rows = append(f.rows, bt)
	return bt, nil
}

func (f *bagTemplateRepoFake) GetByID(_ context.Context, ownerID string, id uuid.UUID) (domain.BagTemplate, error) {
	for _, bt := range f.rows {
		if bt.OwnerID == ownerID && bt.ID == id {
			return bt, nil
		}
	}
	return domain.BagTemplate{}, domain.ErrNotFound
}

func (f *bagTemplateRepoFake) FindByName(_ context.Context, ownerID, name string) (domain.BagTemplate, error) {
	for _, bt := range f.rows {
		if bt.OwnerID == ownerID && strings.EqualFold(bt.Name, name) {
			return bt, nil
		}
	}
	return domain.BagTemplate{}, domain.ErrNotFound
}

func (f *bagTemplateRepoFake) ListByOwner(_ context.Context, ownerID string) ([]domain.BagTemplate, error) {
	var out []domain.BagTemplate
	for _, bt := range f.rows {
		if bt.OwnerID == ownerID {
			out = append(out, bt)
		}
	}
	return out, nil
}

func (f *bagTemplateRepoFake) Update(_ context.Context, bt domain.BagTemplate) (domain.BagTemplate, error) {
	for i, row := range f.rows {
		if row.ID == bt.ID {
			bt.OwnerID = row.OwnerID
			bt.CreatedAt = row.CreatedAt
			bt.UpdatedAt = time.Now()
			f.rows[i] = bt
			return bt, nil
		}
	}
	return domain.BagTemplate{}, domain.ErrNotFound
}

func (f *bagTemplateRepoFake) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	for i, bt := range f.rows {
		if bt.OwnerID == ownerID && bt.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *bagTemplateRepoFake) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	list, _ := f.ListByOwner(context.Background(), ownerID)
	return int64(len(list)), nil
}

// ---- trips -----------------------------------------------------------------

type tripRepoFake struct {
	rows []domain.Trip
	bags *bagRepoFake
	its  *tripItemRepoFake
}

var _ repo.TripRepo = (*tripRepoFake)(nil)

func (f *tripRepoFake) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.rows = append(f.rows, t)
	return t, nil
}

func (f *tripRepoFake) GetByID(_ context.Context, ownerID string, id uuid.UUID) (domain.Trip, error) {
	for _, t := range f.rows {
		if t.OwnerID == ownerID && t.ID == id {
			return t, nil
		}
	}
	return domain.Trip{}, domain.ErrNotFound
}

func (f *tripRepoFake) FindByName(_ context.Context, ownerID, name string) (domain.Trip, error) {
	for _, t := range f.rows {
		if t.OwnerID == ownerID && strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return domain.Trip{}, domain.ErrNotFound
}

func (f *tripRepoFake) ListByOwner(_ context.Context, ownerID string) ([]domain.Trip, error) {
	var out []domain.Trip
	for _, t := range f.rows {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *tripRepoFake) Update(_ context.Context, t domain.Trip) (domain.Trip, error) {
	for i, row := range f.rows {
		if row.ID == t.ID {
			t.OwnerID = row.OwnerID
			t.CreatedAt = row.CreatedAt
			t.UpdatedAt = time.Now()
			f.rows[i] = t
			return t, nil
		}
	}
	return domain.Trip{}, domain.ErrNotFound
}

// Delete cascades to bags and items the way the schema's foreign keys do.
func (f *tripRepoFake) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	for i, t := range f.rows {
		if t.OwnerID == ownerID && t.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			if f.bags != nil {
				f.bags.dropTrip(id)
			}
			if f.its != nil {
				f.its.dropTrip(id)
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *tripRepoFake) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	list, _ := f.ListByOwner(context.Background(), ownerID)
	return int64(len(list)), nil
}

// ---- bags ------------------------------------------------------------------

type bagRepoFake struct {
	rows []domain.Bag
}

var _ repo.BagRepo = (*bagRepoFake)(nil)

func (f *bagRepoFake) Create(_ context.Context, b domain.Bag) (domain.Bag, error) {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.rows = append(f.rows, b)
	return b, nil
}

func (f *bagRepoFake) GetByID(_ context.Context, tripID, bagID uuid.UUID) (domain.Bag, error) {
	for _, b := range f.rows {
		if b.TripID == tripID && b.ID == bagID {
			return b, nil
		}
	}
	return domain.Bag{}, domain.ErrNotFound
}

func (f *bagRepoFake) FindByName(_ context.Context, tripID uuid.UUID, name string) (domain.Bag, error) {
	for _, b := range f.rows {
		if b.TripID == tripID && strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return domain.Bag{}, domain.ErrNotFound
}

func (f *bagRepoFake) ListByTrip(_ context.Context, tripID uuid.UUID) ([]domain.Bag, error) {
	var out []domain.Bag
	for _, b := range f.rows {
		if b.TripID == tripID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *bagRepoFake) Update(_ context.Context, b domain.Bag) (domain.Bag, error) {
	for i, row := range f.rows {
		if row.ID == b.ID {
			b.TripID = row.TripID
			b.CreatedAt = row.CreatedAt
			b.UpdatedAt = time.Now()
			f.rows[i] = b
			return b, nil
		}
	}
	return domain.Bag{}, domain.ErrNotFound
}

func (f *bagRepoFake) Delete(_ context.Context, tripID, bagID uuid.UUID) error {
	for i, b := range f.rows {
		if b.TripID == tripID && b.ID == bagID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *bagRepoFake) dropTrip(tripID uuid.UUID) {
	kept := f.rows[:0]
	for _, b := range f.rows {
		if b.TripID != tripID {
			kept = append(kept, b)
		}
	}
	f.rows = kept
}

// ---- trip items ------------------------------------------------------------

type tripItemRepoFake struct {
	rows []domain.TripItem
}

var _ repo.TripItemRepo = (*tripItemRepoFake)(nil)

func (f *tripItemRepoFake) Create(_ context.Context, it domain.TripItem) (domain.TripItem, error) {
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	f.rows = append(f.rows, it)
	return it, nil
}

func (f *tripItemRepoFake) GetByID(_ context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	for _, it := range f.rows {
		if it.TripID == tripID && it.ID == itemID {
			return it, nil
		}
	}
	return domain.TripItem{}, domain.ErrNotFound
}

func (f *tripItemRepoFake) FindMatch(_ context.Context, tripID uuid.UUID, name, categoryName string, bagID, containerID *uuid.UUID) (domain.TripItem, error) {
	for _, it := range f.rows {
		if it.TripID == tripID &&
			strings.EqualFold(it.Name, name) &&
			strings.EqualFold(it.CategoryName, categoryName) &&
			uuidPtrEqual(it.BagID, bagID) &&
			uuidPtrEqual(it.ContainerItemID, containerID) {
			return it, nil
		}
	}
	return domain.TripItem{}, domain.ErrNotFound
}

func (f *tripItemRepoFake) FindInBag(_ context.Context, tripID uuid.UUID, name, categoryName string, bagID *uuid.UUID) (domain.TripItem, error) {
	for _, it := range f.rows {
		if it.TripID == tripID &&
			strings.EqualFold(it.Name, name) &&
			strings.EqualFold(it.CategoryName, categoryName) &&
			uuidPtrEqual(it.BagID, bagID) {
			return it, nil
		}
	}
	return domain.TripItem{}, domain.ErrNotFound
}

func (f *tripItemRepoFake) ListByTrip(_ context.Context, tripID uuid.UUID) ([]domain.TripItem, error) {
	var out []domain.TripItem
	for _, it := range f.rows {
		if it.TripID == tripID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *tripItemRepoFake) ListByContainer(_ context.Context, tripID, containerID uuid.UUID) ([]domain.TripItem, error) {
	var out []domain.TripItem
	for _, it := range f.rows {
		if it.TripID == tripID && it.ContainerItemID != nil && *it.ContainerItemID == containerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *tripItemRepoFake) Update(_ context.Context, it domain.TripItem) (domain.TripItem, error) {
	for i, row := range f.rows {
		if row.ID == it.ID {
			it.TripID = row.TripID
			it.CreatedAt = row.CreatedAt
			it.UpdatedAt = time.Now()
			f.rows[i] = it
			return it, nil
		}
	}
	return domain.TripItem{}, domain.ErrNotFound
}

// Delete nulls the container reference of any children, matching the
// schema's ON DELETE SET NULL.
func (f *tripItemRepoFake) Delete(_ context.Context, tripID, itemID uuid.UUID) error {
	for i, it := range f.rows {
		if it.TripID == tripID && it.ID == itemID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			for j := range f.rows {
				if f.rows[j].ContainerItemID != nil && *f.rows[j].ContainerItemID == itemID {
					f.rows[j].ContainerItemID = nil
				}
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *tripItemRepoFake) dropTrip(tripID uuid.UUID) {
	kept := f.rows[:0]
	for _, it := range f.rows {
		if it.TripID != tripID {
			kept = append(kept, it)
		}
	}
	f.rows = kept
}

// mustFind returns the item with the given name or fails loudly.
func (f *tripItemRepoFake) mustFind(name string) domain.TripItem {
	for _, it := range f.rows {
		if it.Name == name {
			return it
		}
	}
	panic(fmt.Sprintf("no item named %q in fake", name))
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
