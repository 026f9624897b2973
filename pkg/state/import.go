package state

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/cardforge/pkg/core"
)

// ImportResult reports what an import added.
type ImportResult struct {
	Projects int      `json:"projects"`
	Notes    int      `json:"notes"`
	Skipped  []string `json:"skipped,omitempty"`
}

// ImportSnapshot merges an imported document into the collections.
//
// Every imported project whose name is not already taken (ignoring case)
// is created with a new id, together with its notes remapped to that id.
// Projects whose name exists are skipped along with their notes. Both
// collections are saved once; on failure nothing is kept.
func (c *Collection) ImportSnapshot(ctx context.Context, snap core.Snapshot) (ImportResult, error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.mu.RLock()
	prevNotes, prevProjects := c.notes, c.projects
	c.mu.RUnlock()

	var res ImportResult
	ts := c.now()
	taken := make(map[string]bool, len(prevProjects))
	for _, p := range prevProjects {
		taken[p.NameLC] = true
	}

	remap := make(map[string]string)
	nextProjects := slices.Clone(prevProjects)
	for _, in := range snap.Projects {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = core.DefaultProjectName
		}
		lc := strings.ToLower(name)
		if taken[lc] {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		taken[lc] = true

		emoji := in.Emoji
		if emoji == "" {
			emoji = core.DefaultProjectEmoji
		}
		color := in.Color
		if !color.Valid() {
			color = core.DefaultProjectColor
		}
		p := core.Project{
			ID:        c.newID(),
			Name:      name,
			Emoji:     emoji,
			Color:     color,
			SortOrder: len(nextProjects),
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		p.Normalize()
		nextProjects = append(nextProjects, p)
		if in.ID != "" {
			remap[in.ID] = p.ID
		}
		res.Projects++
	}

	nextNotes := slices.Clone(prevNotes)
	for _, in := range snap.Notes {
		projectID, ok := remap[in.ProjectID]
		if !ok {
			continue
		}
		n := in.Clone()
		n.ID = c.newID()
		n.ProjectID = projectID
		if strings.TrimSpace(n.Title) == "" {
			n.Title = core.DefaultNoteTitle
		}
		n.Tags = cleanTags(n.Tags)
		if n.DueDate != nil && *n.DueDate == "" {
			n.DueDate = nil
		}
		n.CreatedAt, n.UpdatedAt = ts, ts
		n.Normalize()
		nextNotes = append(nextNotes, n)
		res.Notes++
	}

	msg := fmt.Sprintf("Imported %d projects and %d notes", res.Projects, res.Notes)
	if res.Projects == 0 {
		c.notify(core.LevelInfo, msg, c.Degraded())
		return res, nil
	}

	c.swap(nextNotes, nextProjects)
	degraded, err := c.persist(ctx, core.Both(nextNotes, nextProjects))
	if err != nil {
		return ImportResult{}, c.fail(prevNotes, prevProjects, "Failed to import data", err)
	}
	c.notify(core.LevelSuccess, msg, degraded)
	return res, nil
}
