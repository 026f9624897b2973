// Package prefs persists the small independent settings of a session (theme,
// view mode and the selected project) as scalar slots in the flat store.
package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/cardforge/pkg/core"
)

// Slot keys in the flat store.
const (
	KeyTheme          = "cardforge:theme"
	KeyViewMode       = "cardforge:viewMode"
	KeyCurrentProject = "cardforge:currentProject"
)

// Preferences is the full set of settings read at startup.
type Preferences struct {
	Theme            core.Theme    `json:"theme"`
	ViewMode         core.ViewMode `json:"view_mode"`
	CurrentProjectID string        `json:"current_project_id,omitempty"`
}

// Defaults returns the settings of a fresh install.
func Defaults() Preferences {
	return Preferences{Theme: core.ThemeSystem, ViewMode: core.ViewGrid}
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (core.Theme, error) {
	switch t := core.Theme(s); t {
	case core.ThemeSystem, core.ThemeLight, core.ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown theme %q", core.ErrValidationRejected, s)
}

// ParseViewMode validates a view mode name.
func ParseViewMode(s string) (core.ViewMode, error) {
	switch v := core.ViewMode(s); v {
	case core.ViewGrid, core.ViewList:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown view mode %q", core.ErrValidationRejected, s)
}

// Store reads and writes preference slots.
type Store struct {
	kv     core.KV
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a preference store over kv.
func New(kv core.KV, opts ...Option) *Store {
	s := &Store{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every slot. Unreadable or unknown values fall back to defaults.
func (s *Store) Load(ctx context.Context) Preferences {
	p := Defaults()

	if v, ok := s.get(ctx, KeyTheme); ok {
		if t, err := ParseTheme(v); err == nil {
			p.Theme = t
		} else {
			s.debug("ignoring stored theme", v)
		}
	}
	if v, ok := s.get(ctx, KeyViewMode); ok {
		if m, err := ParseViewMode(v); err == nil {
			p.ViewMode = m
		} else {
			s.debug("ignoring stored view mode", v)
		}
	}
	if v, ok := s.get(ctx, KeyCurrentProject); ok {
		p.CurrentProjectID = v
	}
	return p
}

// SetTheme stores the theme.
func (s *Store) SetTheme(ctx context.Context, t core.Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyTheme, string(t))
}

// SetViewMode stores the view mode.
func (s *Store) SetViewMode(ctx context.Context, m core.ViewMode) error {
	if _, err := ParseViewMode(string(m)); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyViewMode, string(m))
}

// ToggleViewMode flips between grid and list and returns the new mode.
func (s *Store) ToggleViewMode(ctx context.Context) (core.ViewMode, error) {
	next := core.ViewList
	if s.Load(ctx).ViewMode == core.ViewList {
		next = core.ViewGrid
	}
	if err := s.SetViewMode(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// CurrentProject returns the saved selection, if any.
func (s *Store) CurrentProject(ctx context.Context) (string, bool) {
	return s.get(ctx, KeyCurrentProject)
}

// SetCurrentProject saves the selection. An empty id means "All Notes" and
// removes the slot.
func (s *Store) SetCurrentProject(ctx context.Context, id string) error {
	if id == "" {
		return s.kv.Remove(ctx, KeyCurrentProject)
	}
	return s.kv.Set(ctx, KeyCurrentProject, id)
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to read preference", "key", key, "error", err)
		}
		return "", false
	}
	return v, ok && v != ""
}

func (s *Store) debug(msg, value string) {
	if s.logger != nil {
		s.logger.Debug(msg, "value", value)
	}
}
