package state

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/cardforge/pkg/core"
)

// CreateNote adds a note. The project is in.ProjectID when set, else the
// selected project, else the first project.
func (c *Collection) CreateNote(ctx context.Context, in core.NoteInput) (core.Note, error) {
	if err := validateStruct(in); err != nil {
		return core.Note{}, err
	}

	c.mut.Lock()
	defer c.mut.Unlock()

	c.mu.RLock()
	prev, projects, current := c.notes, c.projects, c.currentProjectID
	c.mu.RUnlock()

	projectID := in.ProjectID
	if projectID == "" {
		projectID = current
	}
	if projectID == "" && len(projects) > 0 {
		projectID = projects[0].ID
	}
	if projectID == "" {
		return core.Note{}, fmt.Errorf("%w: no project to hold the note", core.ErrValidationRejected)
	}
	if indexOfProject(projects, projectID) < 0 {
		return core.Note{}, fmt.Errorf("%w: unknown project %q", core.ErrValidationRejected, projectID)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = core.DefaultNoteTitle
	}
	ts := c.now()
	note := core.Note{
		ID:        c.newID(),
		ProjectID: projectID,
		Title:     title,
		Content:   in.Content,
		Tags:      cleanTags(in.Tags),
		Pinned:    in.Pinned,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if in.DueDate != nil && *in.DueDate != "" {
		d := *in.DueDate
		note.DueDate = &d
	}
	note.Normalize()

	next := slices.Concat(prev, []core.Note{note})
	c.swap(next, nil)

	degraded, err := c.persist(ctx, core.NotesOnly(next))
	if err != nil {
		return core.Note{}, c.fail(prev, nil, fmt.Sprintf(`Failed to save "%s"`, title), err)
	}
	c.notify(core.LevelSuccess, fmt.Sprintf(`Created "%s"`, title), degraded)
	return note.Clone(), nil
}

// UpdateNote merges patch over the note with the given id. An unknown id is
// a no-op: applied is false and nothing is persisted or notified.
func (c *Collection) UpdateNote(ctx context.Context, id string, patch core.NotePatch) (note core.Note, applied bool, err error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.mu.RLock()
	prev, projects := c.notes, c.projects
	c.mu.RUnlock()

	i := indexOfNote(prev, id)
	if i < 0 {
		return core.Note{}, false, nil
	}
	if err := validateStruct(patch); err != nil {
		return core.Note{}, false, err
	}
	if patch.ProjectID != nil && indexOfProject(projects, *patch.ProjectID) < 0 {
		return core.Note{}, false, fmt.Errorf("%w: unknown project %q", core.ErrValidationRejected, *patch.ProjectID)
	}
	if patch.Tags != nil {
		patch.Tags = cleanTags(patch.Tags)
	}

	updated := prev[i].Clone()
	patch.Apply(&updated)
	updated.UpdatedAt = c.now()
	updated.Normalize()

	next := slices.Clone(prev)
	next[i] = updated
	c.swap(next, nil)

	label := updated.Title
	if label == "" {
		label = "note"
	}
	degraded, err := c.persist(ctx, core.NotesOnly(next))
	if err != nil {
		return core.Note{}, false, c.fail(prev, nil, fmt.Sprintf(`Failed to update "%s"`, label), err)
	}
	c.notify(core.LevelSuccess, fmt.Sprintf(`Updated "%s"`, label), degraded)
	return updated.Clone(), true, nil
}

// DeleteNote removes the note with the given id. An unknown id is a no-op.
func (c *Collection) DeleteNote(ctx context.Context, id string) (applied bool, err error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.mu.RLock()
	prev := c.notes
	c.mu.RUnlock()

	i := indexOfNote(prev, id)
	if i < 0 {
		return false, nil
	}
	title := prev[i].Title
	next := slices.Delete(slices.Clone(prev), i, i+1)
	c.swap(next, nil)

	degraded, err := c.persist(ctx, core.NotesOnly(next))
	if err != nil {
		return false, c.fail(prev, nil, fmt.Sprintf(`Failed to delete "%s"`, title), err)
	}
	c.notify(core.LevelSuccess, fmt.Sprintf(`Deleted "%s"`, title), degraded)
	return true, nil
}

// cleanTags trims tags and drops empty ones, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
