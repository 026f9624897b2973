package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path      string     `json:"path"`
	Format    string     `json:"format"`
	ReadOnly  bool       `json:"read_only"`
	Writes    int        `json:"writes"`
	LastWrite *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:      r.Path,
		Format:    r.serializer.Name(),
		ReadOnly:  r.config.ReadOnly,
		Writes:    r.writes,
		LastWrite: r.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fallback-store"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
