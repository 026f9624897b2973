package sqlite

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path      string     `json:"path"`
	Open      bool       `json:"open"`
	Writes    int        `json:"writes"`
	LastWrite *time.Time `json:"last_write,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:      r.config.Path,
		Open:      r.db != nil,
		Writes:    r.writes,
		LastWrite: r.lastWrite,
		LastError: r.lastError,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "primary-store"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
