// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"strings"

	"github.com/tphakala/dasdcalc/internal/geometry"
)

// MaxPrecision is the largest supported number of decimal places.
const MaxPrecision = 12

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateCalculatorSettings(&settings.Calculator); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateThresholdSettings(&settings.Thresholds); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateHistorySettings(&settings.History); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateServerSettings(&settings.Server); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateCalculatorSettings(settings *CalculatorSettings) error {
	var errs []string

	if _, err := geometry.Lookup(settings.DefaultDevice); err != nil {
		errs = append(errs, fmt.Sprintf("calculator.defaultdevice %q is not a known device type", settings.DefaultDevice))
	}
	if settings.Precision < 0 || settings.Precision > MaxPrecision {
		errs = append(errs, fmt.Sprintf("calculator.precision must be between 0 and %d", MaxPrecision))
	}

	if len(errs) > 0 {
		return fmt.Errorf("calculator settings: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateThresholdSettings(settings *ThresholdSettings) error {
	warning, err := ParsePercentage(settings.Warning)
	if err != nil {
		return fmt.Errorf("thresholds.warning: %w", err)
	}
	critical, err := ParsePercentage(settings.Critical)
	if err != nil {
		return fmt.Errorf("thresholds.critical: %w", err)
	}
	if warning < 0 || critical > 100 {
		return fmt.Errorf("thresholds must be between 0%% and 100%%")
	}
	if warning > critical {
		return fmt.Errorf("thresholds.warning (%g%%) must not exceed thresholds.critical (%g%%)", warning, critical)
	}
	return nil
}

func validateHistorySettings(settings *HistorySettings) error {
	if !settings.Enabled {
		return nil
	}
	if settings.Retention < 0 {
		return fmt.Errorf("history.retention must not be negative")
	}
	if settings.MaxEntries <= 0 {
		return fmt.Errorf("history.maxentries must be greater than zero")
	}
	return nil
}

func validateServerSettings(settings *ServerSettings) error {
	if _, _, err := net.SplitHostPort(settings.Listen); err != nil {
		return fmt.Errorf("server.listen %q: %w", settings.Listen, err)
	}
	return nil
}
