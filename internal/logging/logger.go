// Package logging configures the charmbracelet/log loggers idiomlint writes
// diagnostics-about-itself to. Lint results never go through it.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // process-wide default, replaced by the root command
var defaultLogger atomic.Pointer[log.Logger]

//nolint:gochecknoglobals // read-only
var levels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

// ParseLevel maps a --log-level value to a log level, case-insensitively.
// Unknown names give info.
func ParseLevel(name string) log.Level {
	if level, ok := levels[strings.ToLower(name)]; ok {
		return level
	}
	return log.InfoLevel
}

// New returns a stderr logger at the named level, without timestamps.
func New(level string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: ParseLevel(level)})
}

// NewInteractive returns an info logger for messages addressed to the user,
// such as the outcome of init or migrate. Info lines carry no level label.
func NewInteractive(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Level: log.InfoLevel})

	styles := log.DefaultStyles()
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].SetString("")
	logger.SetStyles(styles)
	return logger
}

// Default returns the process-wide logger, creating an info logger on first
// use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the default logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
