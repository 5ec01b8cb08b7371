package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/api"
	"github.com/crossscan/crossscan/internal/infra/storage"
	"github.com/crossscan/crossscan/internal/tracking/enrich"
	"github.com/crossscan/crossscan/internal/tracking/metrics"
)

// Queue is the scheduling backend for pending transfers.
type Queue interface {
	EnqueuePending(ctx context.Context, transferID string, at time.Time) error
	PopDue(ctx context.Context, now time.Time, limit int) ([]string, error)
	RemovePending(ctx context.Context, transferID string) error
}

// StatusCache caches simplified statuses for list views.
type StatusCache interface {
	SetStatus(ctx context.Context, transferID string, status domain.SimplifiedStatus, ttl time.Duration) error
}

// Resolver re-fetches and re-resolves a batch of transfers.
type Resolver interface {
	EnrichTransfers(ctx context.Context, ids []string) []*enrich.TransferView
}

// PollSource searches upstream validator polls.
type PollSource interface {
	SearchPolls(ctx context.Context, q api.GMPQuery) ([]domain.Poll, error)
}

// Config tunes the re-resolution loop.
type Config struct {
	Interval    time.Duration `yaml:"interval"`
	BatchSize   int           `yaml:"batch_size"`
	Backoff     time.Duration `yaml:"backoff"`
	TerminalTTL time.Duration `yaml:"terminal_ttl"`
	PendingTTL  time.Duration `yaml:"pending_ttl"`
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Minute
	}
	if c.TerminalTTL <= 0 {
		c.TerminalTTL = 24 * time.Hour
	}
	if c.PendingTTL <= 0 {
		c.PendingTTL = time.Minute
	}
}

// Poller drains the pending-transfer queue on an interval, re-resolves
// each due transfer against upstream and persists the fresh snapshot.
// Transfers that reach a terminal status leave the queue; the rest are
// re-scheduled after a backoff.
type Poller struct {
	queue      Queue
	cache      StatusCache
	resolver   Resolver
	repo       storage.TransferRepository
	pollSource PollSource
	pollRepo   storage.PollRepository
	cfg        Config
	log        *slog.Logger
}

// New creates a poller. cache may be nil when no Redis is configured.
func New(queue Queue, cache StatusCache, resolver Resolver, repo storage.TransferRepository, cfg Config) *Poller {
	cfg.applyDefaults()
	return &Poller{
		queue:    queue,
		cache:    cache,
		resolver: resolver,
		repo:     repo,
		cfg:      cfg,
		log:      slog.Default(),
	}
}

// WithPollSync enables validator poll ingestion: each cycle also pulls
// a page of recent polls and persists them.
func (p *Poller) WithPollSync(source PollSource, repo storage.PollRepository) *Poller {
	p.pollSource = source
	p.pollRepo = repo
	return p
}

// Run blocks until ctx is cancelled, draining the queue once per
// interval.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.log.Info("Poller started", "interval", p.cfg.Interval, "batch_size", p.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Poller stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := p.Cycle(ctx); err != nil {
				p.log.Error("Poller cycle failed", "error", err)
			}
		}
	}
}

// Cycle runs one drain pass: pop due ids, re-resolve, persist,
// re-schedule or retire.
func (p *Poller) Cycle(ctx context.Context) error {
	now := time.Now()
	ids, err := p.queue.PopDue(ctx, now, p.cfg.BatchSize)
	if err != nil {
		metrics.PollerCycles.WithLabelValues("error").Inc()
		return err
	}
	if len(ids) == 0 {
		p.syncPolls(ctx)
		metrics.PollerCycles.WithLabelValues("empty").Inc()
		return nil
	}

	views := p.resolver.EnrichTransfers(ctx, ids)
	for i, view := range views {
		if view == nil {
			// Fetch failed; try again after the backoff.
			p.requeue(ctx, ids[i])
			continue
		}
		p.apply(ctx, view)
	}

	p.syncPolls(ctx)

	metrics.PollerCycles.WithLabelValues("ok").Inc()
	return nil
}

func (p *Poller) syncPolls(ctx context.Context) {
	if p.pollSource == nil || p.pollRepo == nil {
		return
	}
	polls, err := p.pollSource.SearchPolls(ctx, api.GMPQuery{Size: p.cfg.BatchSize})
	if err != nil {
		p.log.Warn("Failed to fetch polls", "error", err)
		return
	}
	for i := range polls {
		if err := p.pollRepo.Save(ctx, &polls[i]); err != nil {
			p.log.Warn("Failed to persist poll", "poll", polls[i].ID, "error", err)
		}
	}
}

func (p *Poller) apply(ctx context.Context, view *enrich.TransferView) {
	snap := &domain.TransferSnapshot{
		TransferID:       view.TransferID,
		Type:             view.Type,
		SourceChain:      view.SourceChain,
		DestinationChain: view.DestinationChain,
		Records:          view.Records,
		Status:           view.Summary.Status,
	}
	if err := p.repo.Save(ctx, snap); err != nil {
		p.log.Warn("Failed to persist transfer snapshot", "transfer", view.TransferID, "error", err)
	}

	if view.Summary.Status.Terminal() {
		p.setStatus(ctx, view.TransferID, view.Summary.Status, p.cfg.TerminalTTL)
		if err := p.queue.RemovePending(ctx, view.TransferID); err != nil {
			p.log.Warn("Failed to retire transfer", "transfer", view.TransferID, "error", err)
		}
		return
	}

	p.setStatus(ctx, view.TransferID, view.Summary.Status, p.cfg.PendingTTL)
	p.requeue(ctx, view.TransferID)
}

func (p *Poller) requeue(ctx context.Context, transferID string) {
	at := time.Now().Add(p.cfg.Backoff)
	if err := p.queue.EnqueuePending(ctx, transferID, at); err != nil {
		p.log.Warn("Failed to re-queue transfer", "transfer", transferID, "error", err)
	}
}

func (p *Poller) setStatus(ctx context.Context, transferID string, status domain.SimplifiedStatus, ttl time.Duration) {
	if p.cache == nil {
		return
	}
	if err := p.cache.SetStatus(ctx, transferID, status, ttl); err != nil {
		p.log.Warn("Failed to cache transfer status", "transfer", transferID, "error", err)
	}
}

// Track registers a transfer for re-resolution, starting immediately.
func (p *Poller) Track(ctx context.Context, transferID string) error {
	return p.queue.EnqueuePending(ctx, transferID, time.Now())
}
