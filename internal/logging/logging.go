// Package logging builds the runtime logger. The terminal belongs to the
// TUI, so records only ever go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	charmLog "github.com/charmbracelet/log"

	"tododay/internal/config"
)

// New opens the log file named by cfg and returns a logfmt logger plus a
// close func. An empty path yields a logger that discards everything.
func New(cfg config.LogConfig) (*charmLog.Logger, func() error, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if cfg.Path == "" {
		return newLogger(io.Discard, level), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), f.Close, nil
}

func newLogger(w io.Writer, level charmLog.Level) *charmLog.Logger {
	return charmLog.NewWithOptions(w, charmLog.Options{
		Level:           level,
		Prefix:          config.AppName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
}
