package api

import (
	"context"
	"fmt"
	"sync"
)

// Router fails over across upstream endpoints. The primary is tried
// first; throttled or repeatedly failing endpoints are skipped until
// they recover.
type Router struct {
	mu        sync.RWMutex
	endpoints []*Endpoint
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{}
}

// AddEndpoint registers an endpoint. Registration order is priority
// order.
func (r *Router) AddEndpoint(e *Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints = append(r.endpoints, e)
}

// Statuses returns a health snapshot for every endpoint.
func (r *Router) Statuses() []EndpointStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EndpointStatus, 0, len(r.endpoints))
	for _, e := range r.endpoints {
		out = append(out, e.Status())
	}
	return out
}

// Do runs fn against the first usable endpoint, failing over to the
// next on error. The last error is returned when every endpoint fails.
func (r *Router) Do(ctx context.Context, fn func(ctx context.Context, e *Endpoint) error) error {
	r.mu.RLock()
	endpoints := make([]*Endpoint, len(r.endpoints))
	copy(endpoints, r.endpoints)
	r.mu.RUnlock()

	if len(endpoints) == 0 {
		return fmt.Errorf("no upstream endpoints configured")
	}

	var lastErr error
	for _, e := range endpoints {
		if !e.Usable() {
			continue
		}
		if err := fn(ctx, e); err != nil {
			if ctx.Err() != nil {
				return err
			}
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("all upstream endpoints throttled")
	}
	return lastErr
}
