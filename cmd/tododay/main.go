package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	charmLog "github.com/charmbracelet/log"

	"tododay/internal/config"
	"tododay/internal/logging"
	"tododay/internal/storage"
	"tododay/internal/tracker"
	"tododay/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath, err := config.ResolvePath()
	if err != nil {
		return err
	}
	sess, err := open(ctx, configPath)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := ui.Run(ctx, sess.tracker, sess.cfg, sess.logger); err != nil {
		sess.logger.Error("program exited with error", "err", err)
		return fmt.Errorf("run program: %w", err)
	}
	sess.logger.Info("session ended", "day_id", sess.tracker.Day().ID)
	return nil
}

// session is everything a run holds open.
type session struct {
	cfg     config.Config
	logger  *charmLog.Logger
	store   *storage.Store
	tracker *tracker.Tracker
	closers []func() error
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// open loads the config at configPath, then opens the log, the store and
// the active day.
func open(ctx context.Context, configPath string) (*session, error) {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	sess := &session{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open store failed", "path", cfg.DBPath, "err", err)
		sess.close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	sess.store = store
	sess.closers = append(sess.closers, store.Close)

	sess.tracker = tracker.New(store, tracker.Options{Logger: logger})
	if err := sess.tracker.Load(ctx); err != nil {
		logger.Error("load tracker failed", "err", err)
		sess.close()
		return nil, fmt.Errorf("load days: %w", err)
	}
	logger.Info("session started", "config", configPath, "db", cfg.DBPath, "date", sess.tracker.Day().Date)
	return sess, nil
}
