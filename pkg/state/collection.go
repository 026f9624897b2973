// Package state owns the in-memory note and project collections of a
// session. Every mutation goes through a Collection, which keeps the derived
// fields normalized, persists the changed collections and reports the outcome
// as a notification.
//
// Mutations are applied optimistically: the new collection is visible to
// readers before the save completes. When the store rejects the save (both
// backends failed) the previous collections are restored and an error
// notification is emitted.
package state

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/query"
)

// Seeded project created when a session starts with no projects at all.
const (
	SeedProjectName  = "Personal"
	SeedProjectEmoji = "✨"
)

// SelectionStore persists the currently selected project.
// prefs.Store satisfies it.
type SelectionStore interface {
	CurrentProject(ctx context.Context) (string, bool)
	SetCurrentProject(ctx context.Context, id string) error
}

// Collection is the single source of truth for notes and projects.
type Collection struct {
	store     core.Store
	selection SelectionStore
	notifier  core.Notifier
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	// mut serializes mutations end to end, persistence included.
	mut sync.Mutex

	// mu guards the fields below. Slices are never modified in place; a
	// mutation swaps in a new slice.
	mu               sync.RWMutex
	notes            []core.Note
	projects         []core.Project
	currentProjectID string
	searchQuery      string
	sortBy           core.SortBy
	loaded           bool
}

// Option configures a Collection.
type Option func(*Collection)

// WithSelectionStore persists the current project through s.
func WithSelectionStore(s SelectionStore) Option {
	return func(c *Collection) { c.selection = s }
}

// WithNotifier sets the receiver of mutation outcomes.
func WithNotifier(n core.Notifier) Option {
	return func(c *Collection) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collection) { c.logger = l }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *Collection) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// New creates an empty collection over store. Call Load before use.
func New(store core.Store, opts ...Option) *Collection {
	c := &Collection{
		store:    store,
		notifier: core.Discard,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		notes:    []core.Note{},
		projects: []core.Project{},
		sortBy:   core.SortUpdatedDesc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads both collections from the store, seeds the default project on
// first run and restores the saved selection.
func (c *Collection) Load(ctx context.Context) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	snap, err := c.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collections: %w", err)
	}

	notes := make([]core.Note, 0, len(snap.Notes))
	for _, n := range snap.Notes {
		n.Normalize()
		notes = append(notes, n)
	}
	projects := make([]core.Project, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		p.Normalize()
		projects = append(projects, p)
	}
	slices.SortStableFunc(projects, func(a, b core.Project) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	c.warnOrphans(notes, projects)

	c.mu.Lock()
	c.notes, c.projects = notes, projects
	c.mu.Unlock()

	if len(projects) == 0 {
		ts := c.now()
		seed := core.Project{
			ID:        c.newID(),
			Name:      SeedProjectName,
			Emoji:     SeedProjectEmoji,
			Color:     core.DefaultProjectColor,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		seed.Normalize()
		projects = []core.Project{seed}
		c.mu.Lock()
		c.projects = projects
		c.mu.Unlock()
		if _, err := c.persist(ctx, core.ProjectsOnly(projects)); err != nil {
			c.logWarn("failed to persist seeded project", err)
		}
	}

	current := projects[0].ID
	if c.selection != nil {
		if saved, ok := c.selection.CurrentProject(ctx); ok && indexOfProject(projects, saved) >= 0 {
			current = saved
		}
	}

	c.mu.Lock()
	c.currentProjectID = current
	c.loaded = true
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("collections loaded", "notes", len(notes), "projects", len(projects), "current", current)
	}
	return nil
}

// Notes returns a copy of every note in insertion order.
func (c *Collection) Notes() []core.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return core.CloneNotes(c.notes)
}

// Projects returns a copy of every project ordered by sort order.
func (c *Collection) Projects() []core.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return core.CloneProjects(c.projects)
}

// Note looks up one note by id.
func (c *Collection) Note(id string) (core.Note, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := indexOfNote(c.notes, id); i >= 0 {
		return c.notes[i].Clone(), nil
	}
	return core.Note{}, fmt.Errorf("note %q: %w", id, core.ErrNotFound)
}

// Project looks up one project by id.
func (c *Collection) Project(id string) (core.Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := indexOfProject(c.projects, id); i >= 0 {
		return c.projects[i], nil
	}
	return core.Project{}, fmt.Errorf("project %q: %w", id, core.ErrNotFound)
}

// ProjectByName finds a project by case-insensitive name.
func (c *Collection) ProjectByName(name string) (core.Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := indexOfProjectName(c.projects, name); i >= 0 {
		return c.projects[i], nil
	}
	return core.Project{}, fmt.Errorf("project named %q: %w", name, core.ErrNotFound)
}

// CurrentProjectID returns the selected project, or "" for All Notes.
func (c *Collection) CurrentProjectID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentProjectID
}

// SearchQuery returns the active search text.
func (c *Collection) SearchQuery() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchQuery
}

// SetSearchQuery sets the search text applied by FilteredNotes.
func (c *Collection) SetSearchQuery(q string) {
	c.mu.Lock()
	c.searchQuery = q
	c.mu.Unlock()
}

// SortBy returns the active secondary sort.
func (c *Collection) SortBy() core.SortBy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortBy
}

// SetSortBy sets the secondary sort applied by FilteredNotes.
func (c *Collection) SetSortBy(s core.SortBy) error {
	switch s {
	case core.SortUpdatedDesc, core.SortTitleAsc, core.SortCreatedDesc:
	default:
		return fmt.Errorf("%w: unknown sort %q", core.ErrValidationRejected, s)
	}
	c.mu.Lock()
	c.sortBy = s
	c.mu.Unlock()
	return nil
}

// FilteredNotes runs the query engine over the current state: selected
// project, search text and sort.
func (c *Collection) FilteredNotes() []core.Note {
	c.mu.RLock()
	notes := c.notes
	p := query.Params{ProjectID: c.currentProjectID, Search: c.searchQuery, SortBy: c.sortBy}
	c.mu.RUnlock()
	return query.FilteredNotes(notes, p)
}

// Degraded reports whether the store has fallen back to its lesser backend.
func (c *Collection) Degraded() bool {
	d, ok := c.store.(core.Degradable)
	return ok && d.Degraded()
}

// persist saves p. If this save is the one that tipped the store into its
// fallback backend, the fallback only received the collections in p, so the
// full state is written once more.
func (c *Collection) persist(ctx context.Context, p core.Partial) (degraded bool, err error) {
	d, isDegradable := c.store.(core.Degradable)
	wasDegraded := isDegradable && d.Degraded()

	if err := c.store.SaveAll(ctx, p); err != nil {
		return isDegradable && d.Degraded(), err
	}
	if !isDegradable || !d.Degraded() {
		return false, nil
	}
	if !wasDegraded && !(p.WithNotes && p.WithProjects) {
		c.mu.RLock()
		full := core.Both(c.notes, c.projects)
		c.mu.RUnlock()
		if c.logger != nil {
			c.logger.Info("store degraded, copying full state to fallback")
		}
		if err := c.store.SaveAll(ctx, full); err != nil {
			return true, err
		}
	}
	return true, nil
}

// swap installs new collections. A nil slice leaves that collection as is.
func (c *Collection) swap(notes []core.Note, projects []core.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if notes != nil {
		c.notes = notes
	}
	if projects != nil {
		c.projects = projects
	}
}

func (c *Collection) notify(level core.Level, msg string, degraded bool) {
	n := core.Notification{Level: level, Message: msg, Time: c.now(), Degraded: degraded}
	c.notifier.Notify(n)
}

// fail restores the previous collections after a rejected save and reports it.
func (c *Collection) fail(prevNotes []core.Note, prevProjects []core.Project, msg string, err error) error {
	c.swap(prevNotes, prevProjects)
	c.logWarn("save failed, changes rolled back", err)
	c.notify(core.LevelError, msg, c.Degraded())
	return err
}

func (c *Collection) warnOrphans(notes []core.Note, projects []core.Project) {
	if c.logger == nil {
		return
	}
	for _, n := range notes {
		if indexOfProject(projects, n.ProjectID) < 0 {
			c.logger.Warn("note references a missing project", "note", n.ID, "project", n.ProjectID)
		}
	}
}

func (c *Collection) logWarn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, "error", err)
	}
}

func indexOfNote(notes []core.Note, id string) int {
	return slices.IndexFunc(notes, func(n core.Note) bool { return n.ID == id })
}

func indexOfProject(projects []core.Project, id string) int {
	return slices.IndexFunc(projects, func(p core.Project) bool { return p.ID == id })
}
