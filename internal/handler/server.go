// Package handler implements the HTTP handlers for the Packzen API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/packzen/backend/internal/backup"
	"github.com/packzen/backend/internal/domain"
	"github.com/packzen/backend/internal/service"
)

// The service interfaces below are defined here (in the consumer package)
// following the Go convention: "accept interfaces, return concrete types".
// They let handler tests inject a mock without touching the database or
// service layer.

// CategoryServicer defines the business operations the category handler depends on.
type CategoryServicer interface {
	Create(ctx context.Context, c domain.Category, device string) (domain.Category, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Category, error)
	List(ctx context.Context, ownerID string) ([]domain.Category, error)
	Update(ctx context.Context, c domain.Category, device string) (domain.Category, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error
}

// MasterItemServicer defines the business operations the master item handler depends on.
type MasterItemServicer interface {
	Create(ctx context.Context, m domain.MasterItem, device string) (domain.MasterItem, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.MasterItem, error)
	List(ctx context.Context, ownerID string) ([]domain.MasterItem, error)
	Update(ctx context.Context, m domain.MasterItem, device string) (domain.MasterItem, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error
}

// BagTemplateServicer defines the business operations the bag template handler depends on.
type BagTemplateServicer interface {
	Create(ctx context.Context, bt domain.BagTemplate, device string) (domain.BagTemplate, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.BagTemplate, error)
	List(ctx context.Context, ownerID string) ([]domain.BagTemplate, error)
	Update(ctx context.Context, bt domain.BagTemplate, device string) (domain.BagTemplate, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error
}

// TripServicer defines the business operations the trip handler depends on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip, device string) (domain.Trip, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, ownerID string) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip, device string) (domain.Trip, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID, device string) error
	Copy(ctx context.Context, ownerID string, tripID uuid.UUID, newName, device string) (domain.Trip, error)
}

// BagServicer defines the business operations the bag handler depends on.
type BagServicer interface {
	Create(ctx context.Context, ownerID string, bag domain.Bag, device string) (domain.Bag, error)
	GetByID(ctx context.Context, ownerID string, tripID, bagID uuid.UUID) (domain.Bag, error)
	ListByTrip(ctx context.Context, ownerID string, tripID uuid.UUID) ([]domain.Bag, error)
	Update(ctx context.Context, ownerID string, bag domain.Bag, device string) (domain.Bag, error)
	Delete(ctx context.Context, ownerID string, tripID, bagID uuid.UUID, device string) error
}

// TripItemServicer defines the business operations the trip item handler depends on.
type TripItemServicer interface {
	Create(ctx context.Context, ownerID string, item domain.TripItem, mergeDuplicates bool, device string) (domain.TripItem, error)
	GetByID(ctx context.Context, ownerID string, tripID, itemID uuid.UUID) (domain.TripItem, error)
	ListByTrip(ctx context.Context, ownerID string, tripID uuid.UUID) ([]domain.TripItem, error)
	Update(ctx context.Context, ownerID string, item domain.TripItem, device string) (domain.TripItem, error)
	MoveToContainer(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, containerID *uuid.UUID, device string) (domain.TripItem, error)
	Delete(ctx context.Context, ownerID string, tripID, itemID uuid.UUID, device string) error
}

// BackupServicer defines the export and import operations the backup handler depends on.
type BackupServicer interface {
	Export(ctx context.Context, ownerID string) (*backup.Document, error)
	ExportTrip(ctx context.Context, ownerID string, tripID uuid.UUID) (*backup.Document, error)
	Import(ctx context.Context, ownerID, device string, doc *backup.Document) error
}

// ChangeFeeder defines the change-feed read the sync handler depends on.
type ChangeFeeder interface {
	Feed(ctx context.Context, ownerID string, cursor int64, device string) ([]domain.ChangeEntry, error)
}

// AccountServicer defines the account-level operations the account handler depends on.
type AccountServicer interface {
	Stats(ctx context.Context, ownerID string) (service.AccountStats, error)
	DeleteAll(ctx context.Context, ownerID, device string) error
}

// Server holds the dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	categories CategoryServicer
	masters    MasterItemServicer
	templates  BagTemplateServicer
	trips      TripServicer
	bags       BagServicer
	items      TripItemServicer
	backups    BackupServicer
	changes    ChangeFeeder
	account    AccountServicer

	log *slog.Logger

	// streamInterval is how often the SSE stream re-reads the feed.
	streamInterval time.Duration
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	categories CategoryServicer,
	masters MasterItemServicer,
	templates BagTemplateServicer,
	trips TripServicer,
	bags BagServicer,
	items TripItemServicer,
	backups BackupServicer,
	changes ChangeFeeder,
	account AccountServicer,
	log *slog.Logger,
) *Server {
	return &Server{
		categories:     categories,
		masters:        masters,
		templates:      templates,
		trips:          trips,
		bags:           bags,
		items:          items,
		backups:        backups,
		changes:        changes,
		account:        account,
		log:            log,
		streamInterval: 2 * time.Second,
	}
}

// Routes mounts every handler on the given router. The caller attaches
// middleware (request ID, logging, identity) before calling Routes.
func (s *Server) Routes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", s.CreateCategory)
		r.Get("/", s.ListCategories)
		r.Get("/{id}", s.GetCategory)
		r.Put("/{id}", s.UpdateCategory)
		r.Delete("/{id}", s.DeleteCategory)
	})
	r.Route("/master-items", func(r chi.Router) {
		r.Post("/", s.CreateMasterItem)
		r.Get("/", s.ListMasterItems)
		r.Get("/{id}", s.GetMasterItem)
		r.Put("/{id}", s.UpdateMasterItem)
		r.Delete("/{id}", s.DeleteMasterItem)
	})
	r.Route("/bag-templates", func(r chi.Router) {
		r.Post("/", s.CreateBagTemplate)
		r.Get("/", s.ListBagTemplates)
		r.Get("/{id}", s.GetBagTemplate)
		r.Put("/{id}", s.UpdateBagTemplate)
		r.Delete("/{id}", s.DeleteBagTemplate)
	})
	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/copy", s.CopyTrip)
			r.Get("/export", s.ExportTrip)
			r.Route("/bags", func(r chi.Router) {
				r.Post("/", s.CreateBag)
				r.Get("/", s.ListBags)
				r.Get("/{bagID}", s.GetBag)
				r.Put("/{bagID}", s.UpdateBag)
				r.Delete("/{bagID}", s.DeleteBag)
			})
			r.Route("/items", func(r chi.Router) {
				r.Post("/", s.CreateTripItem)
				r.Get("/", s.ListTripItems)
				r.Get("/{itemID}", s.GetTripItem)
				r.Put("/{itemID}", s.UpdateTripItem)
				r.Put("/{itemID}/container", s.MoveTripItem)
				r.Delete("/{itemID}", s.DeleteTripItem)
			})
		})
	})
	r.Get("/export", s.Export)
	r.Post("/import", s.Import)
	r.Route("/sync", func(r chi.Router) {
		r.Get("/changes", s.ListChanges)
		r.Get("/stream", s.StreamChanges)
	})
	r.Get("/stats", s.GetStats)
	r.Delete("/account", s.DeleteAccount)
}
