// Package logger provides small wrappers over charmbracelet/log's default
// logger shared by the server, loader and CLI packages.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed logger that respects the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Setup flips the global default logger between quiet and debug modes.
// Responses travel over stdout, so diagnostics always go to stderr.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}
