// Package conf provides configuration management for nutridri.
package conf

import "github.com/tphakala/nutridri/internal/logger"

// GetLogger returns the config package logger. It is fetched from the global
// logger each time so it follows a logger installed after package init.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
