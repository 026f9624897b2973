package state

import "github.com/aretw0/introspection"

// CollectionState exposes internal state for observability.
type CollectionState struct {
	Loaded           bool   `json:"loaded"`
	Notes            int    `json:"notes"`
	Projects         int    `json:"projects"`
	CurrentProjectID string `json:"current_project_id,omitempty"`
	SearchQuery      string `json:"search_query,omitempty"`
	SortBy           string `json:"sort_by"`
	Degraded         bool   `json:"degraded"`
	Store            any    `json:"store,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Collection) State() any {
	c.mu.RLock()
	st := CollectionState{
		Loaded:           c.loaded,
		Notes:            len(c.notes),
		Projects:         len(c.projects),
		CurrentProjectID: c.currentProjectID,
		SearchQuery:      c.searchQuery,
		SortBy:           string(c.sortBy),
	}
	c.mu.RUnlock()

	st.Degraded = c.Degraded()
	if intro, ok := c.store.(introspection.Introspectable); ok {
		st.Store = intro.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (c *Collection) ComponentType() string {
	return "collection"
}

var _ introspection.Introspectable = (*Collection)(nil)
var _ introspection.Component = (*Collection)(nil)
