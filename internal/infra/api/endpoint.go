package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Endpoint is one upstream indexer API base URL with health accounting
// and throttle detection.
type Endpoint struct {
	name       string
	baseURL    string
	httpClient *http.Client

	mu           sync.RWMutex
	available    bool
	throttledTil time.Time
	successCount int
	failureCount int
	lastSuccess  time.Time
	lastFailure  time.Time
}

// EndpointStatus is a health snapshot for monitoring.
type EndpointStatus struct {
	Name         string    `json:"name"`
	Available    bool      `json:"available"`
	Throttled    bool      `json:"throttled"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	LastSuccess  time.Time `json:"last_success"`
	LastFailure  time.Time `json:"last_failure"`
}

// NewEndpoint creates an endpoint with a dedicated HTTP client.
func NewEndpoint(name, baseURL string, timeout time.Duration) *Endpoint {
	return &Endpoint{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		available:   true,
		lastSuccess: time.Now(),
	}
}

// Name returns the endpoint's configured name.
func (e *Endpoint) Name() string { return e.name }

// Post sends a JSON body to path and decodes the JSON response into out.
func (e *Endpoint) Post(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if body == nil {
		body = map[string]any{}
	}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return e.do(req, out)
}

// Get fetches path and decodes the JSON response into out.
func (e *Endpoint) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return e.do(req, out)
}

func (e *Endpoint) do(req *http.Request, out any) error {
	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.recordFailure()
		return fmt.Errorf("upstream call: %w", err)
	}
	defer resp.Body.Close()

	// Rate limit / block detection, mirrored from upstream gateways.
	if resp.StatusCode == http.StatusTooManyRequests {
		e.recordThrottle(resp.Header.Get("Retry-After"))
		return fmt.Errorf("rate limited (429), retry after: %s", resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode == http.StatusForbidden {
		e.recordThrottle("")
		return fmt.Errorf("blocked (403)")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		e.recordFailure()
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		e.recordFailure()
		return fmt.Errorf("http %d: %s", resp.StatusCode, truncate(data, 256))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			e.recordFailure()
			return fmt.Errorf("decode response: %w", err)
		}
	}

	e.recordSuccess()
	return nil
}

// Usable reports whether the endpoint should receive traffic.
func (e *Endpoint) Usable() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.available && time.Now().After(e.throttledTil)
}

// Status returns a health snapshot.
func (e *Endpoint) Status() EndpointStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EndpointStatus{
		Name:         e.name,
		Available:    e.available,
		Throttled:    time.Now().Before(e.throttledTil),
		SuccessCount: e.successCount,
		FailureCount: e.failureCount,
		LastSuccess:  e.lastSuccess,
		LastFailure:  e.lastFailure,
	}
}

func (e *Endpoint) recordSuccess() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.successCount++
	e.lastSuccess = time.Now()
	e.available = true
}

func (e *Endpoint) recordFailure() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failureCount++
	e.lastFailure = time.Now()
}

func (e *Endpoint) recordThrottle(retryAfter string) {
	backoff := 30 * time.Second
	if retryAfter != "" {
		if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
			backoff = d
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failureCount++
	e.lastFailure = time.Now()
	e.throttledTil = time.Now().Add(backoff)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
