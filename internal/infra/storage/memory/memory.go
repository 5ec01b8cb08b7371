package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/storage"
)

// MemoryStorage is the in-memory backing used when no database is
// configured.
type MemoryStorage struct {
	mu        sync.RWMutex
	transfers map[string]*domain.TransferSnapshot
	polls     map[string]*domain.Poll
}

// NewMemoryStorage creates empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		transfers: make(map[string]*domain.TransferSnapshot),
		polls:     make(map[string]*domain.Poll),
	}
}

// TransferRepo implements storage.TransferRepository in memory.
type TransferRepo struct {
	store *MemoryStorage
}

// NewTransferRepo creates an in-memory transfer repository.
func NewTransferRepo(store *MemoryStorage) *TransferRepo {
	return &TransferRepo{store: store}
}

// Save upserts a snapshot by transfer id.
func (r *TransferRepo) Save(ctx context.Context, snap *domain.TransferSnapshot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *snap
	cp.UpdatedAt = time.Now()
	r.store.transfers[snap.TransferID] = &cp
	return nil
}

// Get retrieves a snapshot by transfer id.
func (r *TransferRepo) Get(ctx context.Context, transferID string) (*domain.TransferSnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	snap, ok := r.store.transfers[transferID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *snap
	return &cp, nil
}

// ListByStatus retrieves snapshots by simplified status, oldest first.
func (r *TransferRepo) ListByStatus(ctx context.Context, status domain.SimplifiedStatus, limit int) ([]*domain.TransferSnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.TransferSnapshot
	for _, snap := range r.store.transfers {
		if snap.Status == status {
			cp := *snap
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Purge deletes snapshots not updated since the cutoff.
func (r *TransferRepo) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var removed int64
	for id, snap := range r.store.transfers {
		if snap.UpdatedAt.Before(olderThan) {
			delete(r.store.transfers, id)
			removed++
		}
	}
	return removed, nil
}

// PollRepo implements storage.PollRepository in memory.
type PollRepo struct {
	store *MemoryStorage
}

// NewPollRepo creates an in-memory poll repository.
func NewPollRepo(store *MemoryStorage) *PollRepo {
	return &PollRepo{store: store}
}

// Save upserts a poll by id.
func (r *PollRepo) Save(ctx context.Context, poll *domain.Poll) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *poll
	r.store.polls[poll.ID] = &cp
	return nil
}

// Get retrieves a poll by id.
func (r *PollRepo) Get(ctx context.Context, pollID string) (*domain.Poll, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	poll, ok := r.store.polls[pollID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *poll
	return &cp, nil
}
