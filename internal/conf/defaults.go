// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/dasdcalc/internal/geometry"
	"github.com/tphakala/dasdcalc/internal/history"
	"github.com/tphakala/dasdcalc/internal/logger"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("calculator.defaultdevice", geometry.DefaultProfileKey)
	v.SetDefault("calculator.precision", 4)

	v.SetDefault("thresholds.warning", "75%")
	v.SetDefault("thresholds.critical", "90%")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.retention", 24*time.Hour)
	v.SetDefault("history.maxentries", history.DefaultMaxEntries)

	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.debug", false)

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)
}
