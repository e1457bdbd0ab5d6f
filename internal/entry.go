// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/janitor/internal/index"
	"github.com/starford/janitor/internal/janitor"
	"github.com/starford/janitor/internal/storage"
	"github.com/starford/janitor/internal/watch"
)

// Run processes the notes directory once, or keeps processing it on change
// in watch mode, with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		output: os.Stdout,
		logOut: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.notesDir == "" {
		return fmt.Errorf("notes directory is required")
	}

	cfg := app.config

	logger := newLogger(app.logOut, cfg.App)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("notes_dir", app.notesDir),
		slog.String("index_path", cfg.Index.Path),
		slog.Float64("damping", cfg.Rank.Damping),
		slog.Int("workers", cfg.App.Workers),
		slog.Bool("dry_run", app.dryRun),
		slog.Bool("watch", app.watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(app.notesDir, cfg.Notes.Extension)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	jopts := []janitor.Option{
		janitor.WithRankParams(cfg.Rank.Params()),
		janitor.WithWorkers(cfg.App.Workers),
		janitor.WithDryRun(app.dryRun),
		janitor.WithDuplicateTitles(cfg.Notes.DuplicateTitles),
	}

	if cfg.Index.Enabled() && !app.dryRun {
		db, err := index.Open(cfg.Index.Path)
		if err != nil {
			return fmt.Errorf("init index: %w", err)
		}
		defer db.Close()
		jopts = append(jopts, janitor.WithRecorder(db))
	}

	j := janitor.New(store, logger, jopts...)

	once := func(ctx context.Context) error {
		report, err := j.Run(ctx)
		if err != nil {
			return err
		}
		for _, name := range report.Dangling {
			logger.Debug("dangling link target", slog.String("title", name))
		}
		if report.DryRun {
			for _, path := range report.Changed {
				fmt.Fprintln(app.output, path)
			}
		}
		return nil
	}

	if err := once(ctx); err != nil {
		return err
	}
	if !app.watch {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gCtx)
	defer stopWatch()

	g.Go(func() error {
		defer stopWatch()
		return watch.Watch(watchCtx, store, cfg.Watch.Debounce, logger, once)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
		}
		stopWatch()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Watcher stopped successfully")
	return nil
}

func newLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
