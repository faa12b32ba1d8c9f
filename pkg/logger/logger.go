// Package logger builds the stderr logger used for every diagnostic message.
// Standard output is never written to: it belongs to the child process.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix tags every line so wrapper output can be told apart from the child's.
const Prefix = "rbwchain"

// Options configures a Logger.
type Options struct {
	// Level is one of debug, info, warn, error, fatal. Unknown values mean error.
	Level string
	// Format is text (default), json or logfmt.
	Format string
	// Debug forces the debug level regardless of Level.
	Debug bool
}

// Logger is a wrapper around charmbracelet/log.Logger
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *Logger {
	l := &Logger{
		Logger: log.NewWithOptions(w, log.Options{
			Prefix:    Prefix,
			Formatter: ParseFormat(opts.Format),
		}),
	}
	l.SetLogLevel(opts.Level)
	if opts.Debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// Default returns a quiet stderr logger: only errors are shown.
func Default() *Logger {
	return New(os.Stderr, Options{})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return New(io.Discard, Options{})
}

// SetLogLevel sets the log level from a string
func (l *Logger) SetLogLevel(level string) {
	l.SetLevel(ParseLevel(level))
}

// ParseLevel maps a level name to a log.Level. The tool is quiet by default,
// so unknown or empty values map to error.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.ErrorLevel
	}
}

// ParseFormat maps a format name to a formatter.
func ParseFormat(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
