package serve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/diskmanager"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Cleanup(func() { diskmanager.SetMetrics(nil) })

	settings := conf.DefaultSettings()
	settings.Server.Listen = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, settings) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestRunRejectsInvalidListen(t *testing.T) {
	settings := conf.DefaultSettings()
	settings.Server.Listen = "not-an-address"
	settings.Metrics.Enabled = false

	err := Run(context.Background(), settings)
	require.Error(t, err)
}

func TestCommandFlags(t *testing.T) {
	settings := conf.DefaultSettings()
	cmd := Command(settings)

	require.NoError(t, cmd.ParseFlags([]string{"--listen", "0.0.0.0:9999", "--metrics=false", "--history=false"}))
	assert.Equal(t, "0.0.0.0:9999", settings.Server.Listen)
	assert.False(t, settings.Metrics.Enabled)
	assert.False(t, settings.History.Enabled)
}
