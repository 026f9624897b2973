// Package query implements the read-only note query: project scope,
// substring search and pin-first ordering.
package query

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aretw0/cardforge/pkg/core"
)

// Params bundles the inputs of FilteredNotes.
type Params struct {
	// ProjectID limits the result to one project. Empty means all notes.
	ProjectID string
	// Search is matched as a case-insensitive substring.
	Search string
	// SortBy picks the order inside each pin group.
	SortBy core.SortBy
}

// FilteredNotes returns a new slice with the notes matching p, pinned notes
// first. The input slice is never modified and equal keys keep their
// original relative order.
func FilteredNotes(notes []core.Note, p Params) []core.Note {
	needle := strings.ToLower(p.Search)

	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if p.ProjectID != "" && n.ProjectID != p.ProjectID {
			continue
		}
		if needle != "" && !Matches(n, needle) {
			continue
		}
		out = append(out, n.Clone())
	}

	slices.SortStableFunc(out, Comparator(p.SortBy))
	return out
}

// Matches reports whether the lowercased needle occurs in the note title,
// content or tags. It relies on the cached TitleLC and TagsFlat fields.
func Matches(n core.Note, needle string) bool {
	return strings.Contains(n.TitleLC, needle) ||
		strings.Contains(strings.ToLower(n.Content), needle) ||
		strings.Contains(n.TagsFlat, needle)
}

// Comparator returns the composite ordering for sortBy: pinned before
// unpinned, then by the selected key. Unknown values sort by updated_desc.
func Comparator(sortBy core.SortBy) func(a, b core.Note) int {
	var secondary func(a, b core.Note) int
	switch sortBy {
	case core.SortTitleAsc:
		col := collate.New(language.English)
		secondary = func(a, b core.Note) int {
			return col.CompareString(a.Title, b.Title)
		}
	case core.SortCreatedDesc:
		secondary = func(a, b core.Note) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	default:
		secondary = func(a, b core.Note) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		}
	}

	return func(a, b core.Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return secondary(a, b)
	}
}

// ParseSortBy maps user input to a SortBy, defaulting to updated_desc.
func ParseSortBy(s string) core.SortBy {
	switch core.SortBy(s) {
	case core.SortTitleAsc, core.SortCreatedDesc:
		return core.SortBy(s)
	default:
		return core.SortUpdatedDesc
	}
}
