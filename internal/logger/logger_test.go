package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/dasdcalc/internal/logger"
)

// decodeLines parses newline-delimited JSON log output
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestSlogLoggerLevels(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)

	log.Debug("hidden")
	log.Info("shown", logger.String("device_type", "3390"))
	log.Warn("warned", logger.Float64("percent", 70.123456))

	records := decodeLines(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "shown", records[0]["msg"])
	assert.Equal(t, "3390", records[0]["device_type"])
	assert.Equal(t, "WARN", records[1]["level"])
	assert.InDelta(t, 70.123, records[1]["percent"], 1e-9)
}

func TestModuleScoping(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC)

	log.Module("api").Module("convert").Debug("nested")

	records := decodeLines(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, "api.convert", records[0]["module"])
}

func TestWithAccumulatesFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	base := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)
	reqLogger := base.With(logger.String("request_id", "req-1"))

	reqLogger.Info("first")
	base.Info("second")

	records := decodeLines(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "req-1", records[0]["request_id"])
	assert.NotContains(t, records[1], "request_id")
}

func TestWithContextAddsTraceID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)

	ctx := logger.WithTraceID(context.Background(), "abc-123")
	log.WithContext(ctx).Info("traced")
	log.WithContext(context.Background()).Info("untraced")

	records := decodeLines(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "abc-123", records[0]["trace_id"])
	assert.NotContains(t, records[1], "trace_id")
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)
	log.Error("failed", logger.Error(errors.New("boom")))

	records := decodeLines(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, "boom", records[0]["error"])
}

func TestCentralLoggerFileOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	cl, err := logger.NewCentralLogger(&logger.LoggingConfig{
		DefaultLevel: "debug",
		Timezone:     "UTC",
		Console:      &logger.ConsoleOutput{Enabled: false},
		FileOutput:   &logger.FileOutput{Enabled: true, Path: path, Level: "debug"},
	})
	require.NoError(t, err)

	cl.Module("capacity").Info("simulated", logger.Int("count", 3))
	require.NoError(t, cl.Flush())
	require.NoError(t, cl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"module":"capacity"`)
	assert.Contains(t, string(data), `"count":3`)
}

func TestCentralLoggerRejectsBadTimezone(t *testing.T) {
	t.Parallel()

	_, err := logger.NewCentralLogger(&logger.LoggingConfig{Timezone: "Mars/Olympus"})
	require.Error(t, err)

	_, err = logger.NewCentralLogger(nil)
	require.Error(t, err)
}
