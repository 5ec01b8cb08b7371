package storage

import (
	"context"
	"errors"
	"time"

	"github.com/crossscan/crossscan/internal/core/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// TransferRepository caches upstream transfer snapshots. Snapshots are
// append-only in the stage sense: a save only ever adds stages, it
// never retracts one.
type TransferRepository interface {
	// Save upserts a snapshot by transfer id.
	Save(ctx context.Context, snap *domain.TransferSnapshot) error

	// Get retrieves a snapshot by transfer id.
	Get(ctx context.Context, transferID string) (*domain.TransferSnapshot, error)

	// ListByStatus retrieves snapshots with a given simplified status,
	// oldest update first.
	ListByStatus(ctx context.Context, status domain.SimplifiedStatus, limit int) ([]*domain.TransferSnapshot, error)

	// Purge deletes snapshots not updated since the cutoff. Returns the
	// number of rows removed.
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}

// PollRepository caches GMP poll bookkeeping.
type PollRepository interface {
	// Save upserts a poll by id.
	Save(ctx context.Context, poll *domain.Poll) error

	// Get retrieves a poll by id.
	Get(ctx context.Context, pollID string) (*domain.Poll, error)
}
