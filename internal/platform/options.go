package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/summary"
)

// DefaultDatabase is the SQLite file name inside the data directory.
const DefaultDatabase = "cardforge.db"

// options holds the internal configuration for a CardForge session.
type options struct {
	logger          *slog.Logger
	primary         core.Backend
	fallback        core.Backend
	database        string
	fallbackDir     string
	fallbackFormat  string
	primaryDisabled bool
	notifier        core.Notifier
	clock           func() time.Time
	idGen           func() string
	forceTemp       bool
	devSafety       bool
	sqlDebug        bool
	summarizer      summary.Summarizer
}

// Option defines a functional option for configuring CardForge.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		database:       DefaultDatabase,
		fallbackFormat: "json",
		devSafety:      true,
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPrimary injects the structured backend (e.g. an in-memory store in tests).
// If provided, the default SQLite backend is skipped.
func WithPrimary(b core.Backend) Option {
	return func(o *options) {
		o.primary = b
	}
}

// WithFallback injects the flat backend. It must also implement core.KV,
// since preferences are stored there.
func WithFallback(b core.Backend) Option {
	return func(o *options) {
		o.fallback = b
	}
}

// WithDatabase sets the SQLite file. A relative name lives in the data directory.
func WithDatabase(name string) Option {
	return func(o *options) {
		o.database = name
	}
}

// WithFallbackDir sets the flat store directory. Defaults to <data>/kv.
func WithFallbackDir(dir string) Option {
	return func(o *options) {
		o.fallbackDir = dir
	}
}

// WithFallbackFormat selects the flat store encoding ("json" or "yaml").
func WithFallbackFormat(format string) Option {
	return func(o *options) {
		o.fallbackFormat = format
	}
}

// WithPrimaryDisabled runs on the flat store only.
func WithPrimaryDisabled(disabled bool) Option {
	return func(o *options) {
		o.primaryDisabled = disabled
	}
}

// WithNotifier adds a receiver of mutation outcomes. The session broker
// always receives them too.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		o.idGen = gen
	}
}

// WithForceTemp forces the data directory into the system temp dir.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox applied when running via `go run` or
// `go test`. By default (true) the data directory is re-rooted into a
// temporary directory so development runs never touch real data.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithSQLDebug echoes SQL statements of the primary backend.
func WithSQLDebug(enabled bool) Option {
	return func(o *options) {
		o.sqlDebug = enabled
	}
}

// WithSummarizer sets the note summarizer. Without it the session gets an
// unconfigured Gemini client.
func WithSummarizer(s summary.Summarizer) Option {
	return func(o *options) {
		o.summarizer = s
	}
}
