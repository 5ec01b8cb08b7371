package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/storage"
)

// PollRepo implements storage.PollRepository using PostgreSQL.
type PollRepo struct {
	db *DB
}

// NewPollRepo creates a new PostgreSQL poll repository.
func NewPollRepo(db *DB) *PollRepo {
	return &PollRepo{db: db}
}

// Save upserts a poll by id.
func (r *PollRepo) Save(ctx context.Context, poll *domain.Poll) error {
	doc, err := json.Marshal(poll)
	if err != nil {
		return fmt.Errorf("failed to marshal poll: %w", err)
	}

	query := `
		INSERT INTO polls (poll_id, chain, status, height, doc, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (poll_id) DO UPDATE SET
			chain = EXCLUDED.chain,
			status = EXCLUDED.status,
			height = EXCLUDED.height,
			doc = EXCLUDED.doc,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, poll.ID, poll.Chain, poll.Status, poll.Height, doc); err != nil {
		return fmt.Errorf("failed to save poll: %w", err)
	}
	return nil
}

// Get retrieves a poll by id.
func (r *PollRepo) Get(ctx context.Context, pollID string) (*domain.Poll, error) {
	var doc []byte
	if err := r.db.GetContext(ctx, &doc, `SELECT doc FROM polls WHERE poll_id = $1`, pollID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	var poll domain.Poll
	if err := json.Unmarshal(doc, &poll); err != nil {
		return nil, fmt.Errorf("failed to unmarshal poll: %w", err)
	}
	return &poll, nil
}
