package poller

import (
	"context"
	"testing"
	"time"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/api"
	"github.com/crossscan/crossscan/internal/infra/storage/memory"
	"github.com/crossscan/crossscan/internal/tracking/enrich"
)

type mockQueue struct {
	due      []string
	enqueued map[string]time.Time
	removed  []string
}

func newMockQueue(due ...string) *mockQueue {
	return &mockQueue{due: due, enqueued: make(map[string]time.Time)}
}

func (q *mockQueue) EnqueuePending(ctx context.Context, id string, at time.Time) error {
	q.enqueued[id] = at
	return nil
}

func (q *mockQueue) PopDue(ctx context.Context, now time.Time, limit int) ([]string, error) {
	ids := q.due
	if len(ids) > limit {
		ids = ids[:limit]
	}
	q.due = q.due[len(ids):]
	return ids, nil
}

func (q *mockQueue) RemovePending(ctx context.Context, id string) error {
	q.removed = append(q.removed, id)
	return nil
}

type mockCache struct {
	statuses map[string]domain.SimplifiedStatus
	ttls     map[string]time.Duration
}

func newMockCache() *mockCache {
	return &mockCache{
		statuses: make(map[string]domain.SimplifiedStatus),
		ttls:     make(map[string]time.Duration),
	}
}

func (c *mockCache) SetStatus(ctx context.Context, id string, status domain.SimplifiedStatus, ttl time.Duration) error {
	c.statuses[id] = status
	c.ttls[id] = ttl
	return nil
}

type mockResolver struct {
	views map[string]*enrich.TransferView
}

func (r *mockResolver) EnrichTransfers(ctx context.Context, ids []string) []*enrich.TransferView {
	out := make([]*enrich.TransferView, len(ids))
	for i, id := range ids {
		out[i] = r.views[id]
	}
	return out
}

func view(id string, status domain.SimplifiedStatus) *enrich.TransferView {
	return &enrich.TransferView{
		TransferID:       id,
		Type:             domain.TransferDepositAddress,
		SourceChain:      "ethereum",
		DestinationChain: "osmosis",
		Summary:          domain.TransferSummary{Status: status},
	}
}

func TestCycleRetiresTerminalTransfers(t *testing.T) {
	queue := newMockQueue("t1", "t2")
	cache := newMockCache()
	resolver := &mockResolver{views: map[string]*enrich.TransferView{
		"t1": view("t1", domain.StatusReceived),
		"t2": view("t2", domain.StatusApproved),
	}}
	store := memory.NewMemoryStorage()
	repo := memory.NewTransferRepo(store)

	p := New(queue, cache, resolver, repo, Config{})
	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	// t1 is terminal: retired from the queue, cached long.
	if len(queue.removed) != 1 || queue.removed[0] != "t1" {
		t.Errorf("expected t1 retired, got %v", queue.removed)
	}
	if cache.statuses["t1"] != domain.StatusReceived {
		t.Errorf("expected cached received status for t1, got %s", cache.statuses["t1"])
	}
	if cache.ttls["t1"] != p.cfg.TerminalTTL {
		t.Errorf("expected terminal TTL for t1, got %s", cache.ttls["t1"])
	}

	// t2 is still in flight: re-queued with backoff, cached short.
	if _, ok := queue.enqueued["t2"]; !ok {
		t.Error("expected t2 re-queued")
	}
	if cache.ttls["t2"] != p.cfg.PendingTTL {
		t.Errorf("expected pending TTL for t2, got %s", cache.ttls["t2"])
	}

	// Both snapshots persisted.
	for _, id := range []string{"t1", "t2"} {
		if _, err := repo.Get(context.Background(), id); err != nil {
			t.Errorf("expected snapshot for %s, got %v", id, err)
		}
	}
}

func TestCycleRequeuesFailedFetches(t *testing.T) {
	queue := newMockQueue("gone")
	resolver := &mockResolver{views: map[string]*enrich.TransferView{}}
	store := memory.NewMemoryStorage()

	p := New(queue, nil, resolver, memory.NewTransferRepo(store), Config{Backoff: time.Minute})
	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	at, ok := queue.enqueued["gone"]
	if !ok {
		t.Fatal("expected failed transfer re-queued")
	}
	if until := time.Until(at); until < 30*time.Second {
		t.Errorf("expected backoff of about a minute, got %s", until)
	}
}

type mockPollSource struct {
	polls []domain.Poll
}

func (s *mockPollSource) SearchPolls(ctx context.Context, q api.GMPQuery) ([]domain.Poll, error) {
	return s.polls, nil
}

func TestCycleSyncsPolls(t *testing.T) {
	store := memory.NewMemoryStorage()
	pollRepo := memory.NewPollRepo(store)
	source := &mockPollSource{polls: []domain.Poll{
		{ID: "poll-1", Chain: "ethereum", Status: "completed"},
		{ID: "poll-2", Chain: "avalanche", Status: "pending"},
	}}

	p := New(newMockQueue(), nil, &mockResolver{}, memory.NewTransferRepo(store), Config{}).
		WithPollSync(source, pollRepo)
	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	for _, id := range []string{"poll-1", "poll-2"} {
		if _, err := pollRepo.Get(context.Background(), id); err != nil {
			t.Errorf("expected poll %s persisted, got %v", id, err)
		}
	}
}

func TestCycleEmptyQueue(t *testing.T) {
	p := New(newMockQueue(), nil, &mockResolver{}, memory.NewTransferRepo(memory.NewMemoryStorage()), Config{})
	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
}
