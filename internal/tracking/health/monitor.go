package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crossscan/crossscan/internal/infra/api"
)

// Pinger is a dependency with a liveness check.
type Pinger interface {
	Health(ctx context.Context) error
}

// QueueDepth reports the pending-transfer backlog.
type QueueDepth interface {
	PendingCount(ctx context.Context) (int64, error)
}

// UpstreamStatus exposes per-endpoint upstream health.
type UpstreamStatus interface {
	Statuses() []api.EndpointStatus
}

// Monitor aggregates health from the upstream client, the database, the
// cache and the pending queue. Checks are rate limited so the endpoints
// can be polled aggressively without hammering dependencies.
type Monitor struct {
	upstream   UpstreamStatus
	db         Pinger
	cache      Pinger
	queue      QueueDepth
	backlogMax int64

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport Report
}

// NewMonitor creates a health monitor. db, cache and queue may be nil
// when the corresponding backend is not configured.
func NewMonitor(upstream UpstreamStatus, db, cache Pinger, queue QueueDepth, backlogMax int64) *Monitor {
	if backlogMax <= 0 {
		backlogMax = 10000
	}
	return &Monitor{
		upstream:   upstream,
		db:         db,
		cache:      cache,
		queue:      queue,
		backlogMax: backlogMax,
	}
}

// CheckHealth performs a health check across all configured components.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < 10*time.Second && len(m.lastReport) > 0 {
		return m.lastReport
	}

	report := make(Report)
	report["upstream"] = m.checkUpstream()
	if m.db != nil {
		report["database"] = checkPinger(ctx, "database", m.db)
	}
	if m.cache != nil {
		report["cache"] = checkPinger(ctx, "cache", m.cache)
	}
	if m.queue != nil {
		report["queue"] = m.checkQueue(ctx)
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}

// Overall collapses a report to the worst component status.
func Overall(report Report) Status {
	status := StatusHealthy
	for _, c := range report {
		if c.Status == StatusCritical {
			return StatusCritical
		}
		if c.Status == StatusDegraded {
			status = StatusDegraded
		}
	}
	return status
}

func (m *Monitor) checkUpstream() ComponentHealth {
	h := ComponentHealth{Component: "upstream", Status: StatusHealthy}
	if m.upstream == nil {
		h.Status = StatusCritical
		h.Detail = "no upstream client"
		return h
	}

	statuses := m.upstream.Statuses()
	usable := 0
	for _, s := range statuses {
		if s.Available && !s.Throttled {
			usable++
		}
	}
	switch {
	case usable == 0:
		h.Status = StatusCritical
		h.Detail = "no usable endpoints"
	case usable < len(statuses):
		h.Status = StatusDegraded
		h.Detail = fmt.Sprintf("%d/%d endpoints usable", usable, len(statuses))
	}
	return h
}

func (m *Monitor) checkQueue(ctx context.Context) ComponentHealth {
	h := ComponentHealth{Component: "queue", Status: StatusHealthy}
	depth, err := m.queue.PendingCount(ctx)
	if err != nil {
		h.Status = StatusDegraded
		h.Detail = err.Error()
		return h
	}
	h.Detail = fmt.Sprintf("%d pending", depth)
	if depth > m.backlogMax {
		h.Status = StatusDegraded
	}
	return h
}

func checkPinger(ctx context.Context, name string, p Pinger) ComponentHealth {
	h := ComponentHealth{Component: name, Status: StatusHealthy}
	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := p.Health(checkCtx); err != nil {
		h.Status = StatusCritical
		h.Detail = err.Error()
	}
	return h
}
