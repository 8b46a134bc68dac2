package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/diskmanager"
	"github.com/tphakala/dasdcalc/internal/observability"
)

// TestMain provides goleak verification to detect goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// the go-cache janitor stops only when its cache is garbage collected
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

// testSettings returns default settings bound to an ephemeral port.
func testSettings() *conf.Settings {
	settings := conf.DefaultSettings()
	settings.Server.Listen = "127.0.0.1:0"
	return settings
}

func TestConfigFromSettings(t *testing.T) {
	t.Parallel()

	settings := conf.DefaultSettings()
	settings.Server.Listen = "0.0.0.0:9090"
	settings.Debug = true
	settings.Metrics.Enabled = false

	cfg := ConfigFromSettings(settings)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:9090", cfg.Listen)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.Metrics)
	assert.True(t, cfg.History)
	assert.Contains(t, cfg.String(), "0.0.0.0:9090")
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing port", func(c *Config) { c.Listen = "localhost" }},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"zero write timeout", func(c *Config) { c.WriteTimeout = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewRejectsInvalidListen(t *testing.T) {
	t.Parallel()

	settings := conf.DefaultSettings()
	settings.Server.Listen = "nonsense"
	_, err := New(settings)
	require.Error(t, err)
}

func TestServerLifecycle(t *testing.T) {
	m, err := observability.NewMetrics()
	require.NoError(t, err)
	t.Cleanup(func() { diskmanager.SetMetrics(nil) })

	s, err := New(testSettings(), WithMetrics(m))
	require.NoError(t, err)
	require.NoError(t, s.Start())

	base := fmt.Sprintf("http://%s", s.Addr().String())
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Post(base+"/api/v1/convert", "application/json",
		strings.NewReader(`{"value":1,"from":"CYL","to":"TRKS"}`))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 15, body["result"], 1e-12)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = client.Get(base + "/metrics")
	require.NoError(t, err)
	metricsBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(metricsBody), "dasdcalc_conversions_total")

	resp, err = client.Get(base + "/health")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	client.CloseIdleConnections()
	require.NoError(t, s.Shutdown())
}

func TestServerWithoutMetrics(t *testing.T) {
	settings := testSettings()
	settings.Metrics.Enabled = false
	settings.History.Enabled = false

	s, err := New(settings)
	require.NoError(t, err)
	require.NoError(t, s.Start())

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/metrics", s.Addr()))
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	client.CloseIdleConnections()
	require.NoError(t, s.Shutdown())
}

func TestServerRunStopsOnCancel(t *testing.T) {
	s, err := New(testSettings())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != nil }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
