package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/errors"
)

// writeConfig writes content to config.yaml in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// resetViper clears global viper state around a test.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadFileEmbeddedDefaults(t *testing.T) {
	resetViper(t)

	path := writeConfig(t, getDefaultConfig())
	settings, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "3390", settings.Calculator.DefaultDevice)
	assert.Equal(t, 4, settings.Calculator.Precision)
	assert.Equal(t, "75%", settings.Thresholds.Warning)
	assert.Equal(t, "90%", settings.Thresholds.Critical)
	assert.True(t, settings.History.Enabled)
	assert.Equal(t, 24*time.Hour, settings.History.Retention)
	assert.Equal(t, 100, settings.History.MaxEntries)
	assert.Equal(t, "127.0.0.1:8080", settings.Server.Listen)
	assert.True(t, settings.Metrics.Enabled)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)

	assert.Same(t, settings, GetSettings())
}

func TestLoadFileAppliesDefaultsForMissingKeys(t *testing.T) {
	resetViper(t)

	path := writeConfig(t, "calculator:\n  defaultdevice: \"3380\"\n")
	settings, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "3380", settings.Calculator.DefaultDevice)
	assert.Equal(t, 4, settings.Calculator.Precision)
	assert.Equal(t, "90%", settings.Thresholds.Critical)
}

func TestLoadFileEnvironmentOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("DASDCALC_CALCULATOR_DEFAULTDEVICE", "3350")
	t.Setenv("DASDCALC_THRESHOLDS_WARNING", "60%")

	path := writeConfig(t, getDefaultConfig())
	settings, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "3350", settings.Calculator.DefaultDevice)
	assert.Equal(t, "60%", settings.Thresholds.Warning)
}

func TestLoadFileRejectsInvalidSettings(t *testing.T) {
	resetViper(t)

	path := writeConfig(t, "calculator:\n  defaultdevice: \"9999\"\nthresholds:\n  warning: 95%\n  critical: 90%\n")
	_, err := LoadFile(path)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}

func TestLoadFileMissing(t *testing.T) {
	resetViper(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	resetViper(t)

	settings := DefaultSettings()
	settings.Calculator.DefaultDevice = "3380"
	settings.History.Retention = 2 * time.Hour
	settings.Thresholds.Warning = "70%"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveYAMLConfig(path, settings))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3380", loaded.Calculator.DefaultDevice)
	assert.Equal(t, 2*time.Hour, loaded.History.Retention)
	assert.Equal(t, "70%", loaded.Thresholds.Warning)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDefaultSettingsAreValid(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	require.NoError(t, ValidateSettings(settings))

	thresholds, err := settings.AlertThresholds()
	require.NoError(t, err)
	assert.Equal(t, capacity.DefaultThresholds(), thresholds)
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"unknown device", func(s *Settings) { s.Calculator.DefaultDevice = "0000" }, true},
		{"negative precision", func(s *Settings) { s.Calculator.Precision = -1 }, true},
		{"precision too high", func(s *Settings) { s.Calculator.Precision = MaxPrecision + 1 }, true},
		{"malformed threshold", func(s *Settings) { s.Thresholds.Warning = "75" }, true},
		{"critical above 100", func(s *Settings) { s.Thresholds.Critical = "120%" }, true},
		{"warning above critical", func(s *Settings) { s.Thresholds.Warning = "95%" }, true},
		{"equal thresholds", func(s *Settings) { s.Thresholds.Warning = "90%" }, false},
		{"zero max entries", func(s *Settings) { s.History.MaxEntries = 0 }, true},
		{"history disabled ignores limits", func(s *Settings) {
			s.History.Enabled = false
			s.History.MaxEntries = 0
		}, false},
		{"bad listen address", func(s *Settings) { s.Server.Listen = "8080" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			settings := DefaultSettings()
			tt.modify(settings)
			err := ValidateSettings(settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"80%", 80, false},
		{"12.5%", 12.5, false},
		{" 90 % ", 90, false},
		{"0%", 0, false},
		{"80", 0, true},
		{"abc%", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePercentage(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEnvValidators(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateEnvBool("true"))
	assert.Error(t, validateEnvBool("yes please"))
	assert.NoError(t, validateEnvDevice("3380"))
	assert.Error(t, validateEnvDevice("1234"))
	assert.NoError(t, validateEnvPrecision("2"))
	assert.Error(t, validateEnvPrecision("20"))
	assert.NoError(t, validateEnvPercentage("75%"))
	assert.Error(t, validateEnvPercentage("150%"))
	assert.NoError(t, validateEnvDuration("12h"))
	assert.Error(t, validateEnvDuration("-1h"))
	assert.NoError(t, validateEnvPositiveInt("5"))
	assert.Error(t, validateEnvPositiveInt("0"))
	assert.NoError(t, validateEnvListen(":8080"))
	assert.Error(t, validateEnvListen("localhost:http-alt"))
	assert.NoError(t, validateEnvLogLevel("DEBUG"))
	assert.Error(t, validateEnvLogLevel("verbose"))
}
