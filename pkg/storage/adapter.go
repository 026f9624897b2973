// Package storage combines a structured primary backend and a flat fallback
// backend behind one core.Store.
//
// The primary is probed once in Initialize. If it cannot be opened, or any
// later operation on it fails, the adapter logs a warning and serves every
// following call from the fallback for the rest of the session. A restart
// probes the primary again.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/cardforge/pkg/core"
)

// Adapter implements core.Store with silent fallback.
type Adapter struct {
	primary  core.Backend
	fallback core.Backend
	logger   *slog.Logger

	mu        sync.RWMutex
	degraded  bool
	reason    string
	fallbacks int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New creates an adapter. primary may be nil, in which case every call goes
// straight to the fallback without counting as degraded.
func New(primary, fallback core.Backend, opts ...Option) *Adapter {
	a := &Adapter{primary: primary, fallback: fallback}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize prepares both backends and probes the primary when it supports
// core.Prober. It only fails when neither can be used.
func (a *Adapter) Initialize(ctx context.Context) error {
	fbErr := a.fallback.Initialize(ctx)
	if fbErr != nil {
		a.warn("fallback backend unavailable", a.fallback.Name(), "initialize", fbErr)
	}

	if a.primary == nil {
		return fbErr
	}
	op, err := "initialize", a.primary.Initialize(ctx)
	if p, ok := a.primary.(core.Prober); ok && err == nil {
		op, err = "probe", p.Probe(ctx)
	}
	if err != nil {
		a.degrade(op, err)
		if fbErr != nil {
			return fmt.Errorf("%w: primary: %v; fallback: %v", core.ErrStorageUnavailable, err, fbErr)
		}
	}
	return nil
}

// LoadAll reads from the active backend. It never fails: when the fallback
// cannot be read either, empty collections are returned.
func (a *Adapter) LoadAll(ctx context.Context) (core.Snapshot, error) {
	if a.usePrimary() {
		snap, err := a.primary.LoadAll(ctx)
		if err == nil {
			return snap, nil
		}
		a.degrade("load", err)
	}

	snap, err := a.fallback.LoadAll(ctx)
	if err != nil {
		a.warn("fallback load failed, starting empty", a.fallback.Name(), "load", err)
		return core.Snapshot{Projects: []core.Project{}, Notes: []core.Note{}}, nil
	}
	return snap, nil
}

// SaveAll writes to the active backend. An error is returned only when the
// fallback rejects the write too; it wraps core.ErrStorageWriteFailed.
func (a *Adapter) SaveAll(ctx context.Context, p core.Partial) error {
	if p.Empty() {
		return nil
	}
	if a.usePrimary() {
		err := a.primary.SaveAll(ctx, p)
		if err == nil {
			return nil
		}
		a.degrade("save", err)
	}

	if err := a.fallback.SaveAll(ctx, p); err != nil {
		if errors.Is(err, core.ErrStorageWriteFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", core.ErrStorageWriteFailed, err)
	}
	return nil
}

// Degraded implements core.Degradable.
func (a *Adapter) Degraded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.degraded
}

// Active names the backend currently serving calls.
func (a *Adapter) Active() string {
	if a.usePrimary() {
		return a.primary.Name()
	}
	return a.fallback.Name()
}

// Close closes any backend holding resources.
func (a *Adapter) Close() error {
	var errs []error
	for _, b := range []core.Backend{a.primary, a.fallback} {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (a *Adapter) usePrimary() bool {
	if a.primary == nil {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return !a.degraded
}

func (a *Adapter) degrade(op string, err error) {
	a.mu.Lock()
	first := !a.degraded
	a.degraded = true
	a.fallbacks++
	if first {
		a.reason = op + ": " + err.Error()
	}
	a.mu.Unlock()

	a.warn("primary backend failed, using fallback", a.primary.Name(), op, err)
}

func (a *Adapter) warn(msg, backend, op string, err error) {
	if a.logger != nil {
		a.logger.Warn(msg, "backend", backend, "op", op, "error", err)
	}
}

var _ core.Store = (*Adapter)(nil)
var _ core.Degradable = (*Adapter)(nil)
