// Package conf provides configuration management for dasdcalc.
package conf

import "github.com/tphakala/dasdcalc/internal/logger"

// GetLogger returns the config package logger scoped to the config module.
// The logger is fetched from the global logger each time so it follows a
// logger installed after package init.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
