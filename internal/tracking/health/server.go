package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crossscan/crossscan/internal/infra/storage"
	"github.com/crossscan/crossscan/internal/tracking/enrich"
)

// Enricher resolves transfers and classifies transactions on demand.
type Enricher interface {
	EnrichTransfers(ctx context.Context, ids []string) []*enrich.TransferView
	EnrichTxs(ctx context.Context, hashes []string) []*enrich.TxView
}

// Server exposes health checks, Prometheus metrics and the JSON read
// endpoints for transfers and transactions.
type Server struct {
	monitor  *Monitor
	enricher Enricher
	repo     storage.TransferRepository
	server   *http.Server
}

// NewServer creates the HTTP server. repo may be nil; stored snapshots
// are then unavailable as a fallback.
func NewServer(monitor *Monitor, enricher Enricher, repo storage.TransferRepository, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor:  monitor,
		enricher: enricher,
		repo:     repo,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/detailed", s.handleDetailed)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/transfers/{id}", s.handleTransfer)
	mux.HandleFunc("GET /v1/txs/{hash}", s.handleTx)

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())
	status := Overall(report)

	w.Header().Set("Content-Type", "application/json")
	if status == StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]string{"status": string(status)})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// handleTransfer resolves a transfer live, falling back to the stored
// snapshot when upstream is unavailable.
func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	views := s.enricher.EnrichTransfers(r.Context(), []string{id})
	if len(views) == 1 && views[0] != nil {
		writeJSON(w, views[0])
		return
	}

	if s.repo != nil {
		snap, err := s.repo.Get(r.Context(), id)
		if err == nil {
			writeJSON(w, snap)
			return
		}
		if !errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
	}

	http.Error(w, "transfer not found", http.StatusNotFound)
}

func (s *Server) handleTx(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")

	views := s.enricher.EnrichTxs(r.Context(), []string{hash})
	if len(views) == 1 && views[0] != nil {
		writeJSON(w, views[0])
		return
	}

	http.Error(w, "transaction not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
