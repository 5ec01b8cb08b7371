package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/crossscan/crossscan/internal/core/config"
	"github.com/crossscan/crossscan/internal/infra/api"
	redisclient "github.com/crossscan/crossscan/internal/infra/redis"
	"github.com/crossscan/crossscan/internal/infra/storage"
	"github.com/crossscan/crossscan/internal/infra/storage/memory"
	"github.com/crossscan/crossscan/internal/infra/storage/postgres"
	"github.com/crossscan/crossscan/internal/registry"
	"github.com/crossscan/crossscan/internal/tracking/enrich"
	"github.com/crossscan/crossscan/internal/tracking/health"
	"github.com/crossscan/crossscan/internal/tracking/poller"
)

// Tracker is the main application struct that wires storage, the
// upstream client, enrichment and the re-resolution loop together.
type Tracker struct {
	cfg          config.AppConfig
	client       *api.Client
	service      *enrich.Service
	pollWorker   *poller.Poller
	healthServer *health.Server
	transferRepo storage.TransferRepository
	pollRepo     storage.PollRepository
	db           *postgres.DB
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewTracker creates a Tracker with all dependencies initialized.
func NewTracker(cfg config.AppConfig) (*Tracker, error) {

	// 1. Initialize Storage
	var transferRepo storage.TransferRepository
	var pollRepo storage.PollRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		transferRepo = postgres.NewTransferRepo(db)
		pollRepo = postgres.NewPollRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		transferRepo = memory.NewTransferRepo(store)
		pollRepo = memory.NewPollRepo(store)
		slog.Info("Using Memory storage")
	}

	// 2. Load the chain and asset registry
	reg, err := registry.LoadFile(cfg.Registry.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	slog.Info("Registry loaded", "chains", len(reg.Chains()))

	// 3. Initialize Upstream Client
	client, err := api.NewClient(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("failed to init upstream client: %w", err)
	}

	// 4. Initialize Enrichment Service
	service := enrich.NewService(client, reg, cfg.Enrich)

	// 5. Initialize Redis and the Poller
	var redisClient *redisclient.Client
	var pollWorker *poller.Poller

	if cfg.Redis.URL != "" {
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, polling disabled", "error", err)
			redisClient = nil
		} else {
			pollWorker = poller.New(redisClient, redisClient, service, transferRepo, cfg.Poller).
				WithPollSync(client, pollRepo)
			slog.Info("Poller initialized", "interval", cfg.Poller.Interval)
		}
	}

	// 6. Initialize Health Monitor and Server
	var dbPinger, cachePinger health.Pinger
	var queueDepth health.QueueDepth
	if db != nil {
		dbPinger = db
	}
	if redisClient != nil {
		cachePinger = redisClient
		queueDepth = redisClient
	}
	monitor := health.NewMonitor(client, dbPinger, cachePinger, queueDepth, cfg.Server.BacklogMax)
	healthServer := health.NewServer(monitor, service, transferRepo, cfg.Server.Port)

	return &Tracker{
		cfg:          cfg,
		client:       client,
		service:      service,
		pollWorker:   pollWorker,
		healthServer: healthServer,
		transferRepo: transferRepo,
		pollRepo:     pollRepo,
		db:           db,
		redisClient:  redisClient,
		log:          slog.Default(),
	}, nil
}

// Service exposes the enrichment service for CLI commands.
func (t *Tracker) Service() *enrich.Service {
	return t.service
}

// Transfers exposes the transfer repository.
func (t *Tracker) Transfers() storage.TransferRepository {
	return t.transferRepo
}

// Polls exposes the poll repository.
func (t *Tracker) Polls() storage.PollRepository {
	return t.pollRepo
}

// Track registers a transfer for continuous re-resolution.
func (t *Tracker) Track(ctx context.Context, transferID string) error {
	if t.pollWorker == nil {
		return fmt.Errorf("polling disabled: no redis configured")
	}
	return t.pollWorker.Track(ctx, transferID)
}

// Start starts the tracker and all its components.
func (t *Tracker) Start(ctx context.Context) error {
	// Start Health Server
	go func() {
		if err := t.healthServer.Start(); err != nil {
			t.log.Error("Health server failed", "error", err)
		}
	}()

	// Start DB Metrics Collector
	if t.db != nil {
		t.db.StartMetricsCollector(ctx)
	}

	// Start the Poller
	if t.pollWorker != nil {
		go func() {
			if err := t.pollWorker.Run(ctx); err != nil && ctx.Err() == nil {
				t.log.Error("Poller failed", "error", err)
			}
		}()
	}

	return nil
}

// Stop stops the tracker.
func (t *Tracker) Stop(ctx context.Context) error {
	t.log.Info("Stopping Tracker...")

	// Close Redis
	if t.redisClient != nil {
		if err := t.redisClient.Close(); err != nil {
			t.log.Warn("Failed to close Redis", "error", err)
		}
	}

	// Stop Health Server
	return t.healthServer.Stop(ctx)
}
