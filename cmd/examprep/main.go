package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/examprep/internal/config"
	"github.com/conorfennell/examprep/internal/logging"
	"github.com/conorfennell/examprep/internal/srs"
	"github.com/conorfennell/examprep/internal/storage"
	"github.com/conorfennell/examprep/internal/studyset"
	"github.com/conorfennell/examprep/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "examprep:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1. Load configuration and set up logging
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Open the database
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.DBPath)

	engine := srs.NewEngine(db,
		srs.WithKey(cfg.StorageKey),
		srs.WithHistoryLimit(cfg.HistoryLimit),
		srs.WithLogger(logger),
	)

	if cfg.Clear {
		if err := engine.ClearAll(ctx); err != nil {
			return err
		}
		logger.Info("review data cleared", "key", cfg.StorageKey)
		return nil
	}

	// 3. Bring the question bank up to date with the study set
	if !cfg.NoSync {
		dir, err := studyset.Resolve(ctx, logger, cfg.StudySet, cfg.ReposDir)
		if err != nil {
			return fmt.Errorf("resolving study set %s: %w", cfg.StudySet, err)
		}
		report, err := studyset.Sync(ctx, logger, db, dir)
		if err != nil {
			return err
		}
		for _, e := range report.Errors {
			logger.Warn("study set problem", "error", e)
		}
	}

	// 4. Serve the practice API
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(engine, db, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving %s: %w", cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

