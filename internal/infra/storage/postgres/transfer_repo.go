package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/infra/storage"
)

// TransferRepo implements storage.TransferRepository using PostgreSQL.
// Stage records are stored as one JSONB document per transfer.
type TransferRepo struct {
	db *DB
}

// NewTransferRepo creates a new PostgreSQL transfer repository.
func NewTransferRepo(db *DB) *TransferRepo {
	return &TransferRepo{db: db}
}

type transferRow struct {
	TransferID       string    `db:"transfer_id"`
	Type             string    `db:"type"`
	SourceChain      string    `db:"source_chain"`
	DestinationChain string    `db:"destination_chain"`
	Records          []byte    `db:"records"`
	Status           string    `db:"status"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Save upserts a snapshot by transfer id.
func (r *TransferRepo) Save(ctx context.Context, snap *domain.TransferSnapshot) error {
	records, err := json.Marshal(snap.Records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	query := `
		INSERT INTO transfers (
			transfer_id, type, source_chain, destination_chain, records, status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (transfer_id) DO UPDATE SET
			type = EXCLUDED.type,
			source_chain = EXCLUDED.source_chain,
			destination_chain = EXCLUDED.destination_chain,
			records = EXCLUDED.records,
			status = EXCLUDED.status,
			updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query,
		snap.TransferID, string(snap.Type), snap.SourceChain, snap.DestinationChain,
		records, string(snap.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by transfer id.
func (r *TransferRepo) Get(ctx context.Context, transferID string) (*domain.TransferSnapshot, error) {
	var row transferRow
	query := `SELECT transfer_id, type, source_chain, destination_chain, records, status, updated_at
		FROM transfers WHERE transfer_id = $1`
	if err := r.db.GetContext(ctx, &row, query, transferID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return row.snapshot()
}

// ListByStatus retrieves snapshots by simplified status, oldest first.
func (r *TransferRepo) ListByStatus(ctx context.Context, status domain.SimplifiedStatus, limit int) ([]*domain.TransferSnapshot, error) {
	var rows []transferRow
	query := `SELECT transfer_id, type, source_chain, destination_chain, records, status, updated_at
		FROM transfers WHERE status = $1 ORDER BY updated_at ASC LIMIT $2`
	if err := r.db.SelectContext(ctx, &rows, query, string(status), limit); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	out := make([]*domain.TransferSnapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := row.snapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Purge deletes snapshots not updated since the cutoff.
func (r *TransferRepo) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transfers WHERE updated_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to purge transfers: %w", err)
	}
	return res.RowsAffected()
}

func (row transferRow) snapshot() (*domain.TransferSnapshot, error) {
	snap := &domain.TransferSnapshot{
		TransferID:       row.TransferID,
		Type:             domain.TransferType(row.Type),
		SourceChain:      row.SourceChain,
		DestinationChain: row.DestinationChain,
		Status:           domain.SimplifiedStatus(row.Status),
		UpdatedAt:        row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Records, &snap.Records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return snap, nil
}
