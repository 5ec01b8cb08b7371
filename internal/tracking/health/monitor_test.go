package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/api"
	"github.com/crossscan/crossscan/internal/infra/storage/memory"
	"github.com/crossscan/crossscan/internal/tracking/enrich"
)

type mockUpstream struct {
	statuses []api.EndpointStatus
}

func (m *mockUpstream) Statuses() []api.EndpointStatus { return m.statuses }

type mockPinger struct {
	err error
}

func (m *mockPinger) Health(ctx context.Context) error { return m.err }

type mockQueue struct {
	depth int64
	err   error
}

func (m *mockQueue) PendingCount(ctx context.Context) (int64, error) { return m.depth, m.err }

func TestCheckHealthStatuses(t *testing.T) {
	tests := []struct {
		name     string
		upstream []api.EndpointStatus
		dbErr    error
		want     Status
	}{
		{
			name: "all healthy",
			upstream: []api.EndpointStatus{
				{Name: "primary", Available: true},
				{Name: "backup", Available: true},
			},
			want: StatusHealthy,
		},
		{
			name: "one endpoint throttled",
			upstream: []api.EndpointStatus{
				{Name: "primary", Available: true, Throttled: true},
				{Name: "backup", Available: true},
			},
			want: StatusDegraded,
		},
		{
			name: "no usable endpoints",
			upstream: []api.EndpointStatus{
				{Name: "primary", Available: false},
			},
			want: StatusCritical,
		},
		{
			name: "database down",
			upstream: []api.EndpointStatus{
				{Name: "primary", Available: true},
			},
			dbErr: errors.New("connection refused"),
			want:  StatusCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(&mockUpstream{statuses: tt.upstream}, &mockPinger{err: tt.dbErr}, nil, &mockQueue{depth: 3}, 0)
			report := m.CheckHealth(context.Background())
			if got := Overall(report); got != tt.want {
				t.Errorf("expected overall %s, got %s (report %+v)", tt.want, got, report)
			}
		})
	}
}

func TestCheckHealthRateLimited(t *testing.T) {
	up := &mockUpstream{statuses: []api.EndpointStatus{{Name: "primary", Available: true}}}
	m := NewMonitor(up, nil, nil, nil, 0)

	first := m.CheckHealth(context.Background())
	up.statuses = nil // would be critical if re-checked
	second := m.CheckHealth(context.Background())

	if Overall(first) != Overall(second) {
		t.Error("expected cached report within the rate-limit window")
	}
}

type stubEnricher struct {
	transfers map[string]*enrich.TransferView
	txs       map[string]*enrich.TxView
}

func (s *stubEnricher) EnrichTransfers(ctx context.Context, ids []string) []*enrich.TransferView {
	out := make([]*enrich.TransferView, len(ids))
	for i, id := range ids {
		out[i] = s.transfers[id]
	}
	return out
}

func (s *stubEnricher) EnrichTxs(ctx context.Context, hashes []string) []*enrich.TxView {
	out := make([]*enrich.TxView, len(hashes))
	for i, h := range hashes {
		out[i] = s.txs[h]
	}
	return out
}

func TestTransferEndpoint(t *testing.T) {
	enricher := &stubEnricher{
		transfers: map[string]*enrich.TransferView{
			"t1": {TransferID: "t1", Summary: domain.TransferSummary{Status: domain.StatusReceived}},
		},
	}
	repo := memory.NewTransferRepo(memory.NewMemoryStorage())
	repo.Save(context.Background(), &domain.TransferSnapshot{TransferID: "t2", Status: domain.StatusPending})

	monitor := NewMonitor(&mockUpstream{}, nil, nil, nil, 0)
	srv := NewServer(monitor, enricher, repo, 0)
	handler := srv.server.Handler

	// Live resolution.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transfers/t1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view enrich.TransferView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if view.TransferID != "t1" || view.Summary.Status != domain.StatusReceived {
		t.Errorf("unexpected view: %+v", view)
	}

	// Upstream miss falls back to the stored snapshot.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transfers/t2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from snapshot fallback, got %d", rec.Code)
	}

	// Unknown everywhere.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transfers/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTxEndpoint(t *testing.T) {
	enricher := &stubEnricher{
		txs: map[string]*enrich.TxView{
			"AB12": {TxHash: "AB12", Type: "MsgSend"},
		},
	}
	monitor := NewMonitor(&mockUpstream{}, nil, nil, nil, 0)
	srv := NewServer(monitor, enricher, nil, 0)
	handler := srv.server.Handler

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/txs/AB12", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/txs/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
