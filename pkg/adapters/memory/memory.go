// Package memory provides an in-process core.Backend and core.KV. It keeps
// nothing across restarts and exists for tests and ephemeral sessions. Each
// operation can be made to fail for failure-path testing.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/cardforge/pkg/core"
)

// ErrInjected is returned by operations switched to failing mode.
var ErrInjected = errors.New("injected failure")

// Store is a thread-safe in-memory backend.
type Store struct {
	name string

	mu       sync.Mutex
	snap     core.Snapshot
	kv       map[string]string
	saves    []core.Partial
	failInit  bool
	failProbe bool
	failLoad  bool
	failSave  bool
}

// New creates an empty store reporting the given backend name.
func New(name string) *Store {
	return &Store{
		name: name,
		snap: core.Snapshot{Projects: []core.Project{}, Notes: []core.Note{}},
		kv:   map[string]string{},
	}
}

// FailInit makes Initialize fail.
func (s *Store) FailInit(v bool) { s.mu.Lock(); s.failInit = v; s.mu.Unlock() }

// FailProbe makes Probe fail.
func (s *Store) FailProbe(v bool) { s.mu.Lock(); s.failProbe = v; s.mu.Unlock() }

// FailLoad makes LoadAll fail.
func (s *Store) FailLoad(v bool) { s.mu.Lock(); s.failLoad = v; s.mu.Unlock() }

// FailSave makes SaveAll and Set fail.
func (s *Store) FailSave(v bool) { s.mu.Lock(); s.failSave = v; s.mu.Unlock() }

// Name implements core.Backend.
func (s *Store) Name() string { return s.name }

// Initialize implements core.Backend.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInit {
		return ErrInjected
	}
	return nil
}

// Probe implements core.Prober.
func (s *Store) Probe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failProbe {
		return ErrInjected
	}
	return nil
}

// LoadAll implements core.Store.
func (s *Store) LoadAll(ctx context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoad {
		return core.Snapshot{}, ErrInjected
	}
	return core.Snapshot{
		Projects: core.CloneProjects(s.snap.Projects),
		Notes:    core.CloneNotes(s.snap.Notes),
	}, nil
}

// SaveAll implements core.Store.
func (s *Store) SaveAll(ctx context.Context, p core.Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return ErrInjected
	}
	rec := core.Partial{WithNotes: p.WithNotes, WithProjects: p.WithProjects}
	if p.WithNotes {
		s.snap.Notes = core.CloneNotes(p.Notes)
		if s.snap.Notes == nil {
			s.snap.Notes = []core.Note{}
		}
		rec.Notes = core.CloneNotes(s.snap.Notes)
	}
	if p.WithProjects {
		s.snap.Projects = core.CloneProjects(p.Projects)
		if s.snap.Projects == nil {
			s.snap.Projects = []core.Project{}
		}
		rec.Projects = core.CloneProjects(s.snap.Projects)
	}
	s.saves = append(s.saves, rec)
	return nil
}

// Snapshot returns a copy of what is currently stored.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Snapshot{
		Projects: core.CloneProjects(s.snap.Projects),
		Notes:    core.CloneNotes(s.snap.Notes),
	}
}

// Saves returns every successful SaveAll call in order.
func (s *Store) Saves() []core.Partial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Partial(nil), s.saves...)
}

// Get implements core.KV.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.kv[key]
	return v, ok, nil
}

// Set implements core.KV.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return ErrInjected
	}
	s.kv[key] = value
	return nil
}

// Remove implements core.KV.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

var _ core.Backend = (*Store)(nil)
var _ core.Prober = (*Store)(nil)
var _ core.KV = (*Store)(nil)
