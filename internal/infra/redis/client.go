package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crossscan/crossscan/internal/core/domain"
	"github.com/crossscan/crossscan/internal/tracking/metrics"
)

// Client wraps Redis operations for the status cache and the
// pending-transfer queue.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key helpers
func statusKey(transferID string) string {
	return fmt.Sprintf("transfer_status:%s", transferID)
}

const pendingQueueKey = "pending_transfers"

// SetStatus caches the simplified status of a transfer. Terminal
// statuses are safe to cache long; non-terminal ones should carry a
// short TTL so list views pick up progress.
func (c *Client) SetStatus(ctx context.Context, transferID string, status domain.SimplifiedStatus, ttl time.Duration) error {
	return c.rdb.Set(ctx, statusKey(transferID), string(status), ttl).Err()
}

// GetStatus returns the cached status for a transfer, if any.
func (c *Client) GetStatus(ctx context.Context, transferID string) (domain.SimplifiedStatus, bool, error) {
	val, err := c.rdb.Get(ctx, statusKey(transferID)).Result()
	if err == redis.Nil {
		metrics.StatusCacheHits.WithLabelValues("miss").Inc()
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get failed: %w", err)
	}
	metrics.StatusCacheHits.WithLabelValues("hit").Inc()
	return domain.SimplifiedStatus(val), true, nil
}

// EnqueuePending schedules a transfer for re-resolution at the given
// time. Re-queueing an id overwrites its scheduled time.
func (c *Client) EnqueuePending(ctx context.Context, transferID string, at time.Time) error {
	member := redis.Z{Score: float64(at.Unix()), Member: transferID}
	if err := c.rdb.ZAdd(ctx, pendingQueueKey, member).Err(); err != nil {
		return fmt.Errorf("zadd failed: %w", err)
	}
	return nil
}

// PopDue removes and returns up to limit transfer ids scheduled at or
// before now.
func (c *Client) PopDue(ctx context.Context, now time.Time, limit int) ([]string, error) {
	opt := &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", now.Unix()),
		Count: int64(limit),
	}
	ids, err := c.rdb.ZRangeByScore(ctx, pendingQueueKey, opt).Result()
	if err != nil {
		return nil, fmt.Errorf("zrangebyscore failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := c.rdb.ZRem(ctx, pendingQueueKey, members...).Err(); err != nil {
		return nil, fmt.Errorf("zrem failed: %w", err)
	}
	return ids, nil
}

// RemovePending drops a transfer from the queue, used once its status
// turns terminal.
func (c *Client) RemovePending(ctx context.Context, transferID string) error {
	return c.rdb.ZRem(ctx, pendingQueueKey, transferID).Err()
}

// PendingCount returns the number of queued transfers.
func (c *Client) PendingCount(ctx context.Context) (int64, error) {
	return c.rdb.ZCard(ctx, pendingQueueKey).Result()
}

// Health checks if Redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
