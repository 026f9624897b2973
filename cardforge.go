package cardforge

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/cardforge/internal/platform"
	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/summary"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// App is one CardForge session.
type App = platform.App

// Status is a point-in-time view of a session.
type Status = platform.Status

// --- Configuration ---

// Option defines a functional option for configuring CardForge.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithPrimary injects the structured backend in place of SQLite.
func WithPrimary(b core.Backend) Option {
	return platform.WithPrimary(b)
}

// WithFallback injects the flat backend. It must also implement core.KV.
func WithFallback(b core.Backend) Option {
	return platform.WithFallback(b)
}

// WithDatabase sets the SQLite file name or path.
func WithDatabase(name string) Option {
	return platform.WithDatabase(name)
}

// WithFallbackDir sets the flat store directory.
func WithFallbackDir(dir string) Option {
	return platform.WithFallbackDir(dir)
}

// WithFallbackFormat selects "json" or "yaml" for the flat store.
func WithFallbackFormat(format string) Option {
	return platform.WithFallbackFormat(format)
}

// WithPrimaryDisabled runs on the flat store only.
func WithPrimaryDisabled(disabled bool) Option {
	return platform.WithPrimaryDisabled(disabled)
}

// WithNotifier adds a receiver of mutation outcomes.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(gen func() string) Option {
	return platform.WithIDGenerator(gen)
}

// WithSummarizer sets the note summarizer.
func WithSummarizer(s summary.Summarizer) Option {
	return platform.WithSummarizer(s)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temp-dir sandbox applied to `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens a session on dataDir and loads the collections.
func New(ctx context.Context, dataDir string, opts ...Option) (*App, error) {
	return platform.New(ctx, dataDir, opts...)
}

// FindRoot walks up from dir to the nearest directory holding a .cardforge
// data directory or a cardforge.yaml file.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
