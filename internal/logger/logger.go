package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger for application-wide logging
type Logger struct {
	*zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string    // trace, debug, info, warn, error
	Pretty     bool      // Human readable console output instead of JSON
	OutputFile string    // Optional file that receives a copy of every line
	Output     io.Writer // Destination, stdout when nil
}

// New creates a logger from cfg
// An unknown or empty level falls back to info. The level is set on this
// logger only, so loggers built with different configs don't interfere.
func New(cfg Config) *Logger {
	zl := zerolog.New(buildOutput(cfg)).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Logger()

	return &Logger{Logger: &zl}
}

func parseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// buildOutput assembles the writer chain: destination, console formatting, file copy
// The file always receives plain JSON
func buildOutput(cfg Config) io.Writer {
	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	if cfg.OutputFile == "" {
		return out
	}

	file, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot open %s, logging to console only: %v\n", cfg.OutputFile, err)
		return out
	}
	return zerolog.MultiLevelWriter(out, file)
}

// NewDefault creates an info level console logger
func NewDefault() *Logger {
	return New(Config{
		Level:  "info",
		Pretty: true,
	})
}

// NewNop creates a logger that discards everything
func NewNop() *Logger {
	zl := zerolog.Nop()
	return &Logger{Logger: &zl}
}

// with returns a child logger carrying one more string field
func (l *Logger) with(key, value string) *Logger {
	child := l.With().Str(key, value).Logger()
	return &Logger{Logger: &child}
}

// WithComponent returns a logger with a component field
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// WithRequestID returns a logger with a request ID field
// An empty ID leaves the logger unchanged
func (l *Logger) WithRequestID(requestID string) *Logger {
	if requestID == "" {
		return l
	}
	return l.with("request_id", requestID)
}

// WithIP returns a logger with an IP address field
func (l *Logger) WithIP(ip string) *Logger {
	return l.with("ip", ip)
}
