// Package logging provides scoped leveled loggers for the encoder packages.
//
// Log levels are controlled through the PION_LOG_TRACE, PION_LOG_DEBUG,
// PION_LOG_INFO, PION_LOG_WARN and PION_LOG_ERROR environment variables, e.g.
// PION_LOG_DEBUG=flac to enable debug output of the encoder.
package logging

import (
	"github.com/pion/logging"
)

var loggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a leveled logger for the given scope.
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}
