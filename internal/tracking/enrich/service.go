package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/api"
	"github.com/crossscan/crossscan/internal/registry"
	"github.com/crossscan/crossscan/internal/tracking/classify"
	"github.com/crossscan/crossscan/internal/tracking/lifecycle"
	"github.com/crossscan/crossscan/internal/tracking/metrics"
	"github.com/crossscan/crossscan/internal/tracking/txmeta"
)

// Fetcher is the upstream boundary the service fans out against.
type Fetcher interface {
	GetTransfer(ctx context.Context, id string) (*api.TransferResult, error)
	GetTx(ctx context.Context, hash string) (*domain.RawTransaction, error)
}

// TransferView is one fully resolved transfer row.
type TransferView struct {
	TransferID       string                 `json:"transfer_id"`
	Type             domain.TransferType    `json:"type"`
	SourceChain      string                 `json:"source_chain"`
	DestinationChain string                 `json:"destination_chain"`
	Steps            []domain.Step          `json:"steps"`
	Summary          domain.TransferSummary `json:"summary"`
	Records          domain.Records         `json:"-"`
}

// TxView is one fully classified transaction row.
type TxView struct {
	TxHash     string            `json:"txhash"`
	Type       string            `json:"type"`
	Sender     string            `json:"sender,omitempty"`
	Recipient  string            `json:"recipient,omitempty"`
	Activities []domain.Activity `json:"activities,omitempty"`
}

// Config tunes batch fan-out.
type Config struct {
	Concurrency int           `yaml:"concurrency"`
	ItemTimeout time.Duration `yaml:"item_timeout"`
}

// Service combines fetch fan-out with the pure resolution and
// classification transforms. All computation below the fetch boundary
// is synchronous and side-effect free.
type Service struct {
	fetcher     Fetcher
	reg         *registry.Registry
	resolver    *lifecycle.Resolver
	classifier  *classify.Classifier
	concurrency int
	itemTimeout time.Duration
	log         *slog.Logger
}

// NewService creates an enrichment service.
func NewService(fetcher Fetcher, reg *registry.Registry, cfg Config) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = 15 * time.Second
	}
	return &Service{
		fetcher:     fetcher,
		reg:         reg,
		resolver:    lifecycle.NewResolver(reg),
		classifier:  classify.NewClassifier(reg),
		concurrency: cfg.Concurrency,
		itemTimeout: cfg.ItemTimeout,
		log:         slog.Default(),
	}
}

// ResolveTransfer projects one fetched transfer into its step list and
// summary. Pure: no fetches, no errors.
func (s *Service) ResolveTransfer(res api.TransferResult) *TransferView {
	source := s.reg.ChainOrNil(res.SourceChain)
	destination := s.reg.ChainOrNil(res.DestinationChain)

	steps := s.resolver.Resolve(res.Type, res.Records, source, destination)
	summary := lifecycle.Aggregate(res.Records, steps)
	metrics.TransfersResolved.WithLabelValues(string(summary.Status)).Inc()

	return &TransferView{
		TransferID:       res.TransferID,
		Type:             res.Type,
		SourceChain:      res.SourceChain,
		DestinationChain: res.DestinationChain,
		Steps:            steps,
		Summary:          summary,
		Records:          res.Records,
	}
}

// ClassifyTx projects one raw transaction into its activities, type and
// parties. Pure: no fetches, no errors.
func (s *Service) ClassifyTx(tx domain.RawTransaction) *TxView {
	activities := s.classifier.Classify(tx)
	return &TxView{
		TxHash:     tx.TxHash,
		Type:       txmeta.ResolveType(tx),
		Sender:     txmeta.Sender(tx, activities),
		Recipient:  txmeta.Recipient(tx, activities),
		Activities: activities,
	}
}

// EnrichTransfers fetches and resolves a batch of transfers
// concurrently. The result slice is index-aligned with ids; a row whose
// fetch failed or returned nothing is nil, and never aborts its
// siblings. Cancelling ctx cancels the outstanding fetches; partial
// results are discarded by the caller.
func (s *Service) EnrichTransfers(ctx context.Context, ids []string) []*TransferView {
	out := make([]*TransferView, len(ids))
	if len(ids) == 0 {
		return out
	}
	batch := uuid.NewString()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
			defer cancel()

			res, err := s.fetcher.GetTransfer(itemCtx, id)
			if err != nil {
				metrics.EnrichmentFailures.WithLabelValues("transfer").Inc()
				s.log.Warn("Failed to fetch transfer", "batch", batch, "transfer", id, "error", err)
				return nil // tolerate per-row failures
			}
			if res == nil {
				return nil
			}
			out[i] = s.ResolveTransfer(*res)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// EnrichTxs fetches and classifies a batch of transactions
// concurrently, with the same partial-failure tolerance as
// EnrichTransfers.
func (s *Service) EnrichTxs(ctx context.Context, hashes []string) []*TxView {
	out := make([]*TxView, len(hashes))
	if len(hashes) == 0 {
		return out
	}
	batch := uuid.NewString()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, hash := range hashes {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
			defer cancel()

			tx, err := s.fetcher.GetTx(itemCtx, hash)
			if err != nil {
				metrics.EnrichmentFailures.WithLabelValues("tx").Inc()
				s.log.Warn("Failed to fetch tx", "batch", batch, "tx", hash, "error", err)
				return nil
			}
			if tx == nil {
				return nil
			}
			out[i] = s.ClassifyTx(*tx)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
