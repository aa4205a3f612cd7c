// Package internal provides the application entry points: bundle
// generation, the stdio bridge, and bundle validation.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/bridge"
	"github.com/starford/ansuz/internal/buildcache"
	"github.com/starford/ansuz/internal/bundle"
	"github.com/starford/ansuz/internal/source"
)

func newApplication(opts []Option) (*application, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	// Logs go to stderr: stdout is the MCP transport in serve mode.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app, logger, nil
}

// Generate runs one generation pass: gather documents, build the artifact
// plan, write the bundle. When watch is true it keeps running and
// regenerates after every source change until ctx is cancelled.
func Generate(ctx context.Context, watch bool, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("source_path", cfg.Source.Path),
		slog.String("bundle_path", cfg.Bundle.Path),
		slog.String("cache_path", cfg.Cache.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	var cache *buildcache.DB
	if cfg.Cache.Enabled() {
		cache, err = buildcache.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("init build cache: %w", err)
		}
		defer cache.Close()
	}

	writer, err := bundle.NewWriter(cfg.Bundle.Path, cache, logger)
	if err != nil {
		return fmt.Errorf("init writer: %w", err)
	}

	pass := func() error {
		docs, err := source.Load(ctx, cfg.Source.Path, cfg.Source.Scheme, cfg.Source.Workers)
		if err != nil {
			return fmt.Errorf("load source: %w", err)
		}
		plan, err := bundle.BuildPlan(docs, planMeta(cfg))
		if err != nil {
			return fmt.Errorf("build plan: %w", err)
		}
		stats, err := writer.Write(ctx, plan)
		if err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		logger.Info("Bundle generated",
			slog.Int("documents", len(docs)),
			slog.Int("written", stats.Written),
			slog.Int("skipped", stats.Skipped),
			slog.Int("pruned", stats.Pruned))
		return nil
	}

	if err := pass(); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return source.Watch(gCtx, cfg.Source.Path, logger, func() {
			if err := pass(); err != nil {
				logger.Error("regeneration failed", slog.String("error", err.Error()))
			}
		})
	})
	return g.Wait()
}

// Serve loads the bundle manifest and answers MCP requests on stdio until
// the transport closes.
func Serve(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	manifest, err := bridge.LoadManifest(cfg.Bundle.Path)
	if err != nil {
		return err
	}

	srv, err := bridge.New(cfg.Bundle.Path, manifest, logger)
	if err != nil {
		return err
	}

	logger.Info("Bridge starting",
		slog.String("bundle_path", cfg.Bundle.Path),
		slog.Int("resources", len(manifest.Resources)),
		slog.Int("tools", len(manifest.Tools)))

	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	return nil
}

// Validate recomputes the artifact plan from the source tree and checks
// the on-disk bundle against it. A non-nil error means faults were found.
func Validate(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	docs, err := source.Load(ctx, cfg.Source.Path, cfg.Source.Scheme, cfg.Source.Workers)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	plan, err := bundle.BuildPlan(docs, planMeta(cfg))
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}

	rep, err := bundle.Validate(cfg.Bundle.Path, plan)
	if err != nil {
		return err
	}
	for _, f := range rep.Missing {
		logger.Error("compatibility fault", slog.String("path", f.Path), slog.String("error", f.Err.Error()))
	}
	for _, f := range rep.Malformed {
		logger.Error("content fault", slog.String("path", f.Path), slog.String("error", f.Err.Error()))
	}
	if !rep.OK() {
		return fmt.Errorf("bundle validation failed: %d missing, %d malformed of %d artifacts",
			len(rep.Missing), len(rep.Malformed), rep.Checked)
	}
	logger.Info("Bundle valid", slog.Int("artifacts", rep.Checked))
	return nil
}

func planMeta(cfg *Config) bundle.Meta {
	return bundle.Meta{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
		Scheme:  cfg.Source.Scheme,
	}
}
