package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/cardforge"
	"github.com/aretw0/cardforge/internal/config"
	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/summary"
)

// loadConfig reads the configuration and applies the --data flag. Without
// either, the data directory of an enclosing CardForge root is used.
func loadConfig() *config.Config {
	cfg, err := config.Load(config.Options{File: configFile})
	if err != nil {
		fatal("Failed to load config", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
		return cfg
	}
	if !filepath.IsAbs(cfg.DataDir) {
		if root, err := cardforge.FindRoot("."); err == nil {
			cfg.DataDir = filepath.Join(root, cfg.DataDir)
		}
	}
	return cfg
}

// openApp starts a session from the configuration.
func openApp(ctx context.Context, extra ...cardforge.Option) (*cardforge.App, *config.Config) {
	cfg := loadConfig()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	opts := []cardforge.Option{
		cardforge.WithLogger(logger),
		cardforge.WithDatabase(cfg.Database),
		cardforge.WithFallbackFormat(cfg.Fallback.Format),
		cardforge.WithPrimaryDisabled(!cfg.Primary.Enabled),
		cardforge.WithSummarizer(summary.New(summary.Config{
			APIKey:   cfg.Summary.APIKey,
			Model:    cfg.Summary.Model,
			Endpoint: cfg.Summary.Endpoint,
			Logger:   logger,
		})),
	}

	if cfg.Fallback.Dir != "" {
		opts = append(opts, cardforge.WithFallbackDir(cfg.Fallback.Dir))
	}

	app, err := cardforge.New(ctx, cfg.DataDir, append(opts, extra...)...)
	if err != nil {
		fatal("Error initializing cardforge", err)
	}
	return app, cfg
}

// resolveProject accepts a project id or name.
func resolveProject(app *cardforge.App, ref string) core.Project {
	if p, err := app.Collection.Project(ref); err == nil {
		return p
	}
	p, err := app.Collection.ProjectByName(ref)
	if err != nil {
		fatal(fmt.Sprintf("Unknown project %q", ref), err)
	}
	return p
}
