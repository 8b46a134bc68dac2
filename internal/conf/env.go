// env.go - environment variable configuration and validation for dasdcalc
package conf

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/dasdcalc/internal/geometry"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DASDCALC"

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "DASDCALC_DEBUG", validateEnvBool},

		{"calculator.defaultdevice", "DASDCALC_CALCULATOR_DEFAULTDEVICE", validateEnvDevice},
		{"calculator.precision", "DASDCALC_CALCULATOR_PRECISION", validateEnvPrecision},

		{"thresholds.warning", "DASDCALC_THRESHOLDS_WARNING", validateEnvPercentage},
		{"thresholds.critical", "DASDCALC_THRESHOLDS_CRITICAL", validateEnvPercentage},

		{"history.enabled", "DASDCALC_HISTORY_ENABLED", validateEnvBool},
		{"history.retention", "DASDCALC_HISTORY_RETENTION", validateEnvDuration},
		{"history.maxentries", "DASDCALC_HISTORY_MAXENTRIES", validateEnvPositiveInt},

		{"server.listen", "DASDCALC_SERVER_LISTEN", validateEnvListen},
		{"server.debug", "DASDCALC_SERVER_DEBUG", validateEnvBool},

		{"metrics.enabled", "DASDCALC_METRICS_ENABLED", validateEnvBool},

		{"logging.default_level", "DASDCALC_LOGGING_DEFAULT_LEVEL", validateEnvLogLevel},
	}
}

// bindEnvVars sets up environment variable bindings with validation
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars()
}

// validateEnvBool validates boolean environment variables
func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

// validateEnvDevice checks the device type against the geometry catalog
func validateEnvDevice(value string) error {
	_, err := geometry.Lookup(value)
	return err
}

// validateEnvPrecision validates the decimal precision (0-12)
func validateEnvPrecision(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("must be an integer")
	}
	if n < 0 || n > MaxPrecision {
		return fmt.Errorf("must be between 0 and %d", MaxPrecision)
	}
	return nil
}

// validateEnvPercentage validates percent strings such as "80%"
func validateEnvPercentage(value string) error {
	p, err := ParsePercentage(value)
	if err != nil {
		return err
	}
	if p < 0 || p > 100 {
		return fmt.Errorf("must be between 0%% and 100%%")
	}
	return nil
}

// validateEnvDuration validates duration strings such as "24h"
func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("must be a duration such as 24h")
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

// validateEnvPositiveInt validates integers greater than zero
func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

// validateEnvListen validates host:port listen addresses
func validateEnvListen(value string) error {
	_, port, err := net.SplitHostPort(value)
	if err != nil {
		return err
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

// validateEnvLogLevel validates log level names
func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("must be one of trace, debug, info, warn, error")
	}
}
