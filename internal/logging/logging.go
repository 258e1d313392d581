// Package logging builds the zerolog logger used throughout modalkit.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/modalkit/internal/config"
)

// Logger is the result of New.
type Logger struct {
	zerolog.Logger
	// Session identifies this run in every entry.
	Session string
	closer  io.Closer
}

// Close closes the log file, if one was opened.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New builds a logger from cfg. Entries go to cfg.File when set, otherwise
// to fallback. The console format is meant for humans, json for tools.
func New(cfg config.LogConfig, fallback io.Writer) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := fallback
	var closer io.Closer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	}
	if cfg.Format != config.LogFormatJSON {
		out = zerolog.ConsoleWriter{Out: out, NoColor: cfg.File != "", TimeFormat: "15:04:05"}
	}

	session := uuid.NewString()
	zl := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("session", session).
		Logger()
	return &Logger{Logger: zl, Session: session, closer: closer}, nil
}

// Ring keeps the most recent log lines in memory. The terminal front end
// logs to it when no log file is configured, since stderr belongs to the
// screen.
type Ring struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewRing creates a ring holding up to max lines.
func NewRing(max int) *Ring {
	return &Ring{max: max}
}

// Write stores p, one entry per line.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		r.lines = append(r.lines, line)
	}
	if over := len(r.lines) - r.max; over > 0 {
		r.lines = append(r.lines[:0:0], r.lines[over:]...)
	}
	return len(p), nil
}

// Lines returns the stored lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}
