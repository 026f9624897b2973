package storage

import "github.com/aretw0/introspection"

// AdapterState exposes internal state for observability.
type AdapterState struct {
	Primary   string `json:"primary,omitempty"`
	Fallback  string `json:"fallback"`
	Active    string `json:"active"`
	Degraded  bool   `json:"degraded"`
	Reason    string `json:"reason,omitempty"`
	Fallbacks int    `json:"fallbacks"`
	Backends  []any  `json:"backends,omitempty"`
}

// State implements introspection.Introspectable. Backends that are
// themselves introspectable contribute their own state.
func (a *Adapter) State() any {
	st := AdapterState{
		Fallback: a.fallback.Name(),
		Active:   a.Active(),
	}
	if a.primary != nil {
		st.Primary = a.primary.Name()
	}

	a.mu.RLock()
	st.Degraded = a.degraded
	st.Reason = a.reason
	st.Fallbacks = a.fallbacks
	a.mu.RUnlock()

	for _, b := range []any{a.primary, a.fallback} {
		if intro, ok := b.(introspection.Introspectable); ok {
			st.Backends = append(st.Backends, intro.State())
		}
	}
	return st
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "store-adapter"
}

var _ introspection.Introspectable = (*Adapter)(nil)
var _ introspection.Component = (*Adapter)(nil)
