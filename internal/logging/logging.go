// Package logging configures the application logger. The TUI owns the
// terminal, so log output always goes to a file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// sink is the shared writer behind every logger, root and component children
// alike, so consent toggles take effect without rebuilding them.
type sinkWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *sinkWriter) swap(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok {
		_ = c.Close()
	}
	s.w = w
}

var sink = &sinkWriter{w: io.Discard}

// Logger is the root logger instance. It discards everything until Init runs.
var Logger = zerolog.New(sink)

var (
	cfgMu   sync.Mutex
	current Config
)

// Config holds logging configuration.
type Config struct {
	Level   string // debug, info, warn, error
	Path    string // log file path; empty disables logging
	Consent bool   // telemetry consent; false disables logging entirely
}

// Init installs the root logger and opens the log file when consent is
// granted. Failure to open the file degrades to a disabled logger rather
// than breaking the UI.
func Init(cfg Config) error {
	cfgMu.Lock()
	current = cfg
	cfgMu.Unlock()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	Logger = zerolog.New(sink).Level(level).With().Timestamp().Logger()

	if !cfg.Consent || cfg.Path == "" {
		sink.swap(io.Discard)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		sink.swap(io.Discard)
		return err
	}
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		sink.swap(io.Discard)
		return err
	}

	sink.swap(file)
	return nil
}

// SetConsent re-points the shared sink for the current configuration.
// Component loggers created before the call pick the change up because
// they all write through the same sink.
func SetConsent(granted bool) error {
	cfgMu.Lock()
	cfg := current
	cfgMu.Unlock()
	cfg.Consent = granted
	return Init(cfg)
}

// WithComponent returns a child logger tagged with a component field.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
