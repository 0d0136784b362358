package catalog

import "github.com/tphakala/nutridri/internal/logger"

// GetLogger returns the catalog package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("catalog")
}
