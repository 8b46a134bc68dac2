// config.go: settings struct for dasdcalc and the functions to load and save it.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// CalculatorSettings holds defaults for conversions.
type CalculatorSettings struct {
	DefaultDevice string // device geometry key used when none is given
	Precision     int    // decimal places in formatted output
}

// ThresholdSettings holds the utilization alert levels as percent strings.
type ThresholdSettings struct {
	Warning  string // e.g. "75%"
	Critical string // e.g. "90%"
}

// HistorySettings controls the in-memory calculation log.
type HistorySettings struct {
	Enabled    bool
	Retention  time.Duration // zero keeps entries until evicted
	MaxEntries int
}

// ServerSettings controls the HTTP API.
type ServerSettings struct {
	Listen string // host:port to listen on
	Debug  bool   // true to log every request
}

// MetricsSettings controls the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool
}

// Settings contains all configuration options for dasdcalc.
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version   string `yaml:"-"`
	BuildDate string `yaml:"-"`

	Calculator CalculatorSettings
	Thresholds ThresholdSettings
	History    HistorySettings
	Server     ServerSettings
	Metrics    MetricsSettings
	Logging    logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// AlertThresholds parses the configured percent strings.
func (s *Settings) AlertThresholds() (capacity.Thresholds, error) {
	warning, err := ParsePercentage(s.Thresholds.Warning)
	if err != nil {
		return capacity.Thresholds{}, err
	}
	critical, err := ParsePercentage(s.Thresholds.Critical)
	if err != nil {
		return capacity.Thresholds{}, err
	}
	return capacity.Thresholds{Warning: warning, Critical: critical}, nil
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
	once             sync.Once
)

// Load reads the configuration file, applying defaults and environment
// overrides, and stores the result as the current settings.
func Load() (*Settings, error) {
	return load("")
}

// LoadFile behaves like Load but reads the given file instead of searching
// the default config paths.
func LoadFile(configPath string) (*Settings, error) {
	return load(configPath)
}

func load(configPath string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(configPath); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper(configPath string) error {
	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		// invalid overrides are reported but do not stop startup
		GetLogger().Warn("Environment configuration issues", logger.Error(err))
	}

	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return errors.New(err).
				Component("conf").
				Category(errors.CategoryFileIO).
				Context("path", configPath).
				Build()
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config to dir and reads it.
func createDefaultConfig(dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	GetLogger().Info("Created default config file", logger.String("path", configPath))
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		// embedded at build time
		panic(err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if GetSettings() == nil {
			if _, err := Load(); err != nil {
				GetLogger().Error("Error loading settings, using defaults", logger.Error(err))
				settingsMutex.Lock()
				settingsInstance = DefaultSettings()
				settingsMutex.Unlock()
			}
		}
	})
	return GetSettings()
}

// DefaultSettings returns the settings produced by the built-in defaults alone.
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		panic(err)
	}
	return settings
}

// SaveYAMLConfig writes settings to configPath.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// write to a temporary file first so the rename is atomic
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("path", configPath).
			Build()
	}
	tempFileName := tempFile.Name()
	defer func() { _ = os.Remove(tempFileName) }()

	if _, err := tempFile.Write(yamlData); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("path", configPath).
			Build()
	}

	return nil
}
