package cmd

import (
	"fmt"
	"strings"

	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/logger"
)

// initLogging builds the central logger from settings and installs it as the
// global logger. Runs after flags are parsed so --debug lowers the level.
func initLogging(settings *conf.Settings) error {
	if settings.Debug {
		applyDebugLevel(&settings.Logging)
	}

	centralLogger, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}

	// release the file handle of a logger installed by an earlier run
	_ = logger.Global().Close()
	logger.SetGlobal(centralLogger)
	return nil
}

// applyDebugLevel lowers every configured output to debug. Trace is kept.
func applyDebugLevel(cfg *logger.LoggingConfig) {
	lower := func(level string) string {
		if strings.EqualFold(level, string(logger.LogLevelTrace)) {
			return level
		}
		return string(logger.LogLevelDebug)
	}

	cfg.DefaultLevel = lower(cfg.DefaultLevel)
	if cfg.Console != nil {
		cfg.Console.Level = lower(cfg.Console.Level)
	}
	if cfg.FileOutput != nil {
		cfg.FileOutput.Level = lower(cfg.FileOutput.Level)
	}
	for module, level := range cfg.ModuleLevels {
		cfg.ModuleLevels[module] = lower(level)
	}
}
