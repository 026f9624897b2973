package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/cardforge/pkg/state"
)

// Suffixes appended to inbox files once handled, so they are not picked up
// again.
const (
	SuffixImported = ".imported"
	SuffixFailed   = ".failed"
)

// DefaultInboxPattern selects the files of the inbox to import.
const DefaultInboxPattern = "**/*.json"

// InboxResult describes the outcome of one inbox file.
type InboxResult struct {
	Path   string
	Result state.ImportResult
	Err    error
}

// Inbox imports documents dropped into a directory.
type Inbox struct {
	Dir      string
	pattern  string
	importer Importer
	logger   *slog.Logger
	delay    time.Duration
	onResult func(InboxResult)

	mu        sync.RWMutex
	active    bool
	processed int
	failed    int
	lastFile  string
}

// InboxOption configures an Inbox.
type InboxOption func(*Inbox)

// WithPattern sets the doublestar pattern files must match, relative to the
// inbox directory.
func WithPattern(p string) InboxOption {
	return func(i *Inbox) { i.pattern = p }
}

// WithDebounce sets how long a file must be quiet before it is imported.
func WithDebounce(d time.Duration) InboxOption {
	return func(i *Inbox) { i.delay = d }
}

// WithInboxLogger sets the logger.
func WithInboxLogger(l *slog.Logger) InboxOption {
	return func(i *Inbox) { i.logger = l }
}

// WithResultHandler is called after every file.
func WithResultHandler(fn func(InboxResult)) InboxOption {
	return func(i *Inbox) { i.onResult = fn }
}

// NewInbox creates an inbox over dir.
func NewInbox(dir string, imp Importer, opts ...InboxOption) (*Inbox, error) {
	i := &Inbox{
		Dir:      dir,
		pattern:  DefaultInboxPattern,
		importer: imp,
		delay:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(i)
	}
	if !doublestar.ValidatePattern(i.pattern) {
		return nil, fmt.Errorf("invalid inbox pattern %q", i.pattern)
	}
	return i, nil
}

// Scan imports every matching file already in the inbox.
func (i *Inbox) Scan(ctx context.Context) error {
	matches, err := doublestar.Glob(os.DirFS(i.Dir), i.pattern)
	if err != nil {
		return fmt.Errorf("failed to scan inbox: %w", err)
	}
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		i.process(ctx, filepath.Join(i.Dir, filepath.FromSlash(rel)))
	}
	return nil
}

// Start runs the watcher in the background until ctx is done.
func (i *Inbox) Start(ctx context.Context) {
	lifecycle.Go(ctx, i.Run, lifecycle.WithErrorHandler(func(err error) {
		if i.logger != nil {
			i.logger.Error("inbox watcher stopped", "dir", i.Dir, "error", err)
		}
	}))
}

// Run watches the inbox directory and imports matching files as they
// settle. It blocks until ctx is done.
func (i *Inbox) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(i.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", i.Dir, err)
	}

	deb := newDebouncer(i.delay)
	i.setActive(true)
	defer i.setActive(false)
	defer deb.stopAndWait(5 * time.Second)

	if i.logger != nil {
		i.logger.Info("watching inbox", "dir", i.Dir, "pattern", i.pattern)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !i.matches(event.Name) {
				continue
			}
			path := event.Name
			deb.add(path, func() { i.process(ctx, path) })

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			if i.logger != nil {
				i.logger.Error("fsnotify error", "error", wErr)
			}
		}
	}
}

func (i *Inbox) matches(path string) bool {
	rel, err := filepath.Rel(i.Dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(i.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// process imports one file and renames it with the outcome suffix.
func (i *Inbox) process(ctx context.Context, path string) {
	res, err := i.importFile(ctx, path)

	suffix := SuffixImported
	if err != nil {
		suffix = SuffixFailed
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if rnErr := os.Rename(path, path+suffix); rnErr != nil && i.logger != nil {
			i.logger.Warn("failed to mark inbox file", "path", path, "error", rnErr)
		}
	}

	i.mu.Lock()
	i.lastFile = path
	if err != nil {
		i.failed++
	} else {
		i.processed++
	}
	i.mu.Unlock()

	if i.logger != nil {
		if err != nil {
			i.logger.Error("inbox import failed", "path", path, "error", err)
		} else {
			i.logger.Info("inbox import done", "path", path, "projects", res.Projects, "notes", res.Notes)
		}
	}
	if i.onResult != nil {
		i.onResult(InboxResult{Path: path, Result: res, Err: err})
	}
}

func (i *Inbox) importFile(ctx context.Context, path string) (state.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return state.ImportResult{}, err
	}
	defer f.Close()
	return Import(ctx, i.importer, f)
}

func (i *Inbox) setActive(v bool) {
	i.mu.Lock()
	i.active = v
	i.mu.Unlock()
}

// InboxState exposes internal state for observability.
type InboxState struct {
	Dir       string `json:"dir"`
	Pattern   string `json:"pattern"`
	Active    bool   `json:"active"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	LastFile  string `json:"last_file,omitempty"`
}

// State implements introspection.Introspectable.
func (i *Inbox) State() any {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return InboxState{
		Dir:       i.Dir,
		Pattern:   i.pattern,
		Active:    i.active,
		Processed: i.processed,
		Failed:    i.failed,
		LastFile:  i.lastFile,
	}
}

// ComponentType implements introspection.Component.
func (i *Inbox) ComponentType() string {
	return "import-inbox"
}

var _ introspection.Introspectable = (*Inbox)(nil)
var _ introspection.Component = (*Inbox)(nil)
