// Package main is the entry point for the Packzen API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/packzen/backend/internal/config"
	"github.com/packzen/backend/internal/handler"
	"github.com/packzen/backend/internal/middleware"
	"github.com/packzen/backend/internal/repo"
	"github.com/packzen/backend/internal/service"
	"github.com/packzen/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// Migrations run at startup through goose's programmatic API. The pool
	// above is pgx-native, but goose wants database/sql, so a separate
	// short-lived connection is opened just for this step.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database schema up to date")

	// --- Wiring -----------------------------------------------------------
	categoryRepo := repo.NewCategoryRepo(pool)
	masterRepo := repo.NewMasterItemRepo(pool)
	templateRepo := repo.NewBagTemplateRepo(pool)
	tripRepo := repo.NewTripRepo(pool)
	bagRepo := repo.NewBagRepo(pool)
	itemRepo := repo.NewTripItemRepo(pool)
	changeRepo := repo.NewChangeLogRepo(pool)

	changeSvc := service.NewChangeLogService(changeRepo, logger)
	changeSvc.Retention = cfg.SyncRetention
	changeSvc.PageSize = cfg.SyncPageSize

	srvHandler := handler.NewServer(
		service.NewCategoryService(categoryRepo, changeSvc),
		service.NewMasterItemService(masterRepo, changeSvc),
		service.NewBagTemplateService(templateRepo, changeSvc),
		service.NewTripService(tripRepo, bagRepo, itemRepo, changeSvc),
		service.NewBagService(tripRepo, bagRepo, changeSvc),
		service.NewTripItemService(tripRepo, bagRepo, itemRepo, changeSvc),
		service.NewBackupService(categoryRepo, masterRepo, templateRepo, tripRepo, bagRepo, itemRepo, changeSvc),
		changeSvc,
		service.NewAccountService(categoryRepo, masterRepo, templateRepo, tripRepo, changeSvc),
		logger,
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	// Health stays outside the identity middleware so probes need no headers.
	r.Get("/healthz", handler.Health)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityHandler())
		srvHandler.Routes(r)
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout is generous because /sync/stream holds its response open.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies any pending embedded migrations.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
