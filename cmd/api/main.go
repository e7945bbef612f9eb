package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/api"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/audit"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/config"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/database"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/face"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/metrics"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/service"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/webhook"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/ws"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting PontoFace API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("profile_store", cfg.ProfileStore),
		slog.String("face_provider", cfg.FaceProvider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pool, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	faceProvider, err := face.NewFaceProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}
	if closer, ok := faceProvider.(interface{ Close() }); ok {
		defer closer.Close()
	}

	// Event log: the csv file is authoritative; slog, the live feed, the
	// events table and the webhook mirror it
	fileLog, err := audit.NewFileLogger(cfg.EventLogPath)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer func() { _ = fileLog.Close() }()

	hub := ws.NewHub()
	go hub.Run(ctx)

	mirrors := []audit.Logger{audit.NewSlogLogger(logger), hub}
	if pool != nil {
		mirrors = append(mirrors, audit.NewStoreLogger(repository.NewEventRepository(pool)))
	}
	if cfg.WebhookURL != "" {
		dispatcher := webhook.NewDispatcher(webhook.NewSender(cfg.WebhookURL, cfg.WebhookSecret), logger, cfg.WebhookMaxAttempts)
		go dispatcher.Run(ctx)
		defer dispatcher.Stop()
		mirrors = append(mirrors, dispatcher)
		logger.Info("webhook notifications enabled", "url", cfg.WebhookURL)
	}

	metricsManager := metrics.NewManager()
	aggregator := metrics.NewAggregator(metricsManager, store, logger, 0)
	go aggregator.Start(ctx)
	defer aggregator.Stop()

	faceService := service.NewFaceService(store, faceProvider, audit.NewJournal(fileLog, logger, mirrors...), logger).
		WithThreshold(cfg.MatchThreshold).
		WithRejectMultipleFaces(cfg.RejectMultipleFaces).
		WithMetrics(metricsManager)

	router := api.NewRouter(logger, &api.Dependencies{
		FaceService:       faceService,
		Store:             store,
		Hub:               hub,
		Metrics:           metricsManager,
		MaxUploadBytes:    int64(cfg.MaxUploadBytes),
		IdentifyRateLimit: cfg.IdentifyRateLimit,
		CORSAllowOrigins:  cfg.CORSAllowOrigins,
		Version:           version,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}

// openStore builds the configured profile store. The pool is nil unless the
// postgres store is selected.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.ProfileRepository, *pgxpool.Pool, error) {
	switch cfg.ProfileStore {
	case config.StoreMemory:
		logger.Warn("using in-memory profile store, profiles are lost on restart")
		return repository.NewMemoryRepository(), nil, nil

	case config.StorePostgres:
		if cfg.AutoMigrate {
			dbName, err := database.DatabaseName(cfg.DatabaseURL)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse database url: %w", err)
			}
			if err := database.MigrateUp(cfg.DatabaseURL, dbName); err != nil {
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			logger.Info("database migrations applied")
		}

		pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewPostgresRepository(pool), pool, nil

	default:
		store, err := repository.NewFileRepository(cfg.ProfileDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open profile directory: %w", err)
		}
		return store, nil, nil
	}
}
