// Package logging builds the structured logger used by the command line
// tool: JSON lines appended to <dir>/logs/adsorb.log, exposed as a
// logr.Logger so the core packages stay independent of the backend.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
)

type Config struct {
	Dir   string
	Debug bool
}

// Setup opens the log file and returns a logger writing to it together
// with a cleanup that closes the file. On failure the returned logger
// discards everything.
func Setup(cfg Config) (logr.Logger, func() error, error) {
	dir := filepath.Clean(cfg.Dir)
	if dir == "" {
		dir = "."
	}

	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return logr.Discard(), noop, err
	}

	path := filepath.Join(logDir, "adsorb.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return logr.Discard(), noop, err
	}

	log := New(f, cfg.Debug)
	log.Info("logger initialized", "path", path, "debug", cfg.Debug)
	return log, f.Close, nil
}

// New returns a JSON logger writing to w. Debug enables V(1) messages.
func New(w io.Writer, debug bool) logr.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return logr.FromSlogHandler(h)
}

func noop() error { return nil }
