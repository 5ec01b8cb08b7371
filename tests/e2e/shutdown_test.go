package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crossscan/crossscan/internal/control"
	"github.com/crossscan/crossscan/internal/core/config"
	"github.com/crossscan/crossscan/internal/infra/api"
)

func writeRegistry(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := `
chains:
  - id: ethereum
    name: Ethereum
    type: evm
  - id: osmosis
    name: Osmosis
    type: cosmos
  - id: axelarnet
    name: Axelarnet
    type: axelarnet
assets:
  - denom: uaxl
    symbol: AXL
    decimals: 6
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write registry file: %v", err)
	}
	return path
}

func TestGracefulShutdown(t *testing.T) {
	// Stub upstream so the tracker starts without network access.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	// Memory storage, no Redis: enough to start every component.
	cfg := config.AppConfig{
		Server:   config.ServerConfig{Port: 0},
		Registry: config.RegistryConfig{Path: writeRegistry(t)},
		Upstream: api.Config{
			Endpoints: []api.EndpointConfig{{Name: "stub", URL: upstream.URL}},
		},
	}

	tracker, err := control.NewTracker(cfg)
	if err != nil {
		t.Fatalf("Failed to create tracker: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	startError := make(chan error, 1)
	go func() {
		startError <- tracker.Start(ctx)
	}()

	// Let it run for a bit
	time.Sleep(2 * time.Second)

	// Trigger shutdown
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	err = tracker.Stop(stopCtx)
	if err != nil {
		t.Errorf("Stop failed: %v", err)
	}

	select {
	case err := <-startError:
		if err != nil && err != context.Canceled {
			t.Errorf("Tracker.Start returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Error("Tracker.Start did not return within 10s of Stop")
	}
}
