package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/introspection"

	"github.com/aretw0/cardforge/pkg/adapters/fs"
	"github.com/aretw0/cardforge/pkg/adapters/sqlite"
	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/notify"
	"github.com/aretw0/cardforge/pkg/prefs"
	"github.com/aretw0/cardforge/pkg/state"
	"github.com/aretw0/cardforge/pkg/storage"
	"github.com/aretw0/cardforge/pkg/summary"
)

// historySize is how many notifications the session broker remembers.
const historySize = 50

// App is one CardForge session: the note collection, its storage stack,
// preferences and notification broker.
type App struct {
	DataDir    string
	Collection *state.Collection
	Prefs      *prefs.Store
	Store      *storage.Adapter
	Broker     *notify.Broker
	Summarizer summary.Summarizer

	logger   *slog.Logger
	notifier core.Notifier
	cancel   context.CancelFunc
}

// New wires a session rooted at dataDir and loads the collection.
//
//	app, err := platform.New(ctx, ".cardforge", platform.WithLogger(logger))
func New(ctx context.Context, dataDir string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sandboxed := o.forceTemp || (o.devSafety && IsDevRun())
	dir := ResolveDataDir(dataDir, sandboxed)
	if sandboxed && dir != dataDir {
		logger.Info("sandboxed data directory", "requested", dataDir, "using", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", core.ErrStorageUnavailable, err)
	}

	fallback, kv, err := buildFallback(o, dir, logger)
	if err != nil {
		return nil, err
	}
	primary := buildPrimary(o, dir, logger)

	store := storage.New(primary, fallback, storage.WithLogger(logger))
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}

	broker := notify.NewBroker(historySize)
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	broker.Start(runCtx)

	notifiers := []core.Notifier{broker, notify.Log(logger)}
	if o.notifier != nil {
		notifiers = append(notifiers, o.notifier)
	}
	notifier := notify.Multi(notifiers...)

	p := prefs.New(kv, prefs.WithLogger(logger))

	collOpts := []state.Option{
		state.WithSelectionStore(p),
		state.WithNotifier(notifier),
		state.WithLogger(logger),
	}
	if o.clock != nil {
		collOpts = append(collOpts, state.WithClock(o.clock))
	}
	if o.idGen != nil {
		collOpts = append(collOpts, state.WithIDGenerator(o.idGen))
	}
	coll := state.New(store, collOpts...)

	if err := coll.Load(ctx); err != nil {
		cancel()
		_ = store.Close()
		return nil, err
	}

	summarizer := o.summarizer
	if summarizer == nil {
		summarizer = summary.New(summary.Config{Logger: logger})
	}

	return &App{
		DataDir:    dir,
		Collection: coll,
		Prefs:      p,
		Store:      store,
		Broker:     broker,
		Summarizer: summarizer,
		logger:     logger,
		notifier:   notifier,
		cancel:     cancel,
	}, nil
}

func buildFallback(o *options, dir string, logger *slog.Logger) (core.Backend, core.KV, error) {
	if o.fallback != nil {
		kv, ok := o.fallback.(core.KV)
		if !ok {
			return nil, nil, fmt.Errorf("%w: fallback backend %q does not store preferences", core.ErrValidationRejected, o.fallback.Name())
		}
		return o.fallback, kv, nil
	}

	path := o.fallbackDir
	if path == "" {
		path = filepath.Join(dir, "kv")
	}
	repo, err := fs.NewRepository(fs.Config{
		Path:   path,
		Format: o.fallbackFormat,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return repo, repo, nil
}

func buildPrimary(o *options, dir string, logger *slog.Logger) core.Backend {
	if o.primaryDisabled {
		return nil
	}
	if o.primary != nil {
		return o.primary
	}

	path := o.database
	if path != sqlite.MemoryPath && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return sqlite.NewRepository(sqlite.Config{
		Path:   path,
		Logger: logger,
		Debug:  o.sqlDebug,
	})
}

// Close stops the broker and releases the backends.
func (a *App) Close() error {
	a.cancel()
	return a.Store.Close()
}

// component is a part of the session that reports its own state.
type component interface {
	introspection.Introspectable
	introspection.Component
}

func (a *App) components() []component {
	return []component{a.Collection, a.Store, a.Broker}
}

// Status is a point-in-time view of the session.
type Status struct {
	DataDir           string         `json:"data_dir"`
	Backend           string         `json:"backend"`
	Degraded          bool           `json:"degraded"`
	SummaryConfigured bool           `json:"summary_configured"`
	Components        map[string]any `json:"components"`
}

// Status collects the state of every component.
func (a *App) Status() Status {
	s := Status{
		DataDir:           a.DataDir,
		Backend:           a.Store.Active(),
		Degraded:          a.Store.Degraded(),
		SummaryConfigured: a.Summarizer.Configured(),
		Components:        make(map[string]any),
	}
	for _, c := range a.components() {
		s.Components[c.ComponentType()] = c.State()
	}
	return s
}

// Notify reports n through the same channels as collection changes: the
// broker, the log and any notifier passed with WithNotifier.
func (a *App) Notify(n core.Notification) {
	a.notifier.Notify(n)
}

// Logger returns the session logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
