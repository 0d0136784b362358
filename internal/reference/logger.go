package reference

import "github.com/tphakala/nutridri/internal/logger"

// GetLogger returns the reference package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("reference")
}
