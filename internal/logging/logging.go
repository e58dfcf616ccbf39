// internal/logging/logging.go
package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tamzrod/trdp-sim/internal/config"
)

// New builds a logger from the logging section.
// The returned closer is nil unless a log file was opened.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	return newWithConsole(cfg, os.Stderr)
}

func newWithConsole(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)

	var writers []io.Writer
	if cfg.ConsoleEnabled() {
		writers = append(writers, console)
	}

	var closer io.Closer
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		writers = append(writers, f)
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = io.Discard
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	return slog.New(newHandler(cfg.Format, w, level)), closer, nil
}

// NewForTest creates a silent logger for tests.
func NewForTest() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// OrDiscard returns l, or a silent logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return NewForTest()
	}
	return l
}

// ParseLevel maps a config level onto slog. Unknown levels mean info.
func ParseLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format config.LogFormat, w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Close closes c if it is non-nil.
func Close(c io.Closer) error {
	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
