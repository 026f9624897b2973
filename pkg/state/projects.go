package state

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/cardforge/pkg/core"
)

// CreateProject adds a project and selects it. A name already used by
// another project, ignoring case, is rejected with an error notification.
func (c *Collection) CreateProject(ctx context.Context, in core.ProjectInput) (core.Project, error) {
	if err := validateStruct(in); err != nil {
		return core.Project{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = core.DefaultProjectName
	}

	c.mut.Lock()
	defer c.mut.Unlock()

	c.mu.RLock()
	prev := c.projects
	c.mu.RUnlock()

	if indexOfProjectName(prev, name) >= 0 {
		c.notify(core.LevelError, fmt.Sprintf(`Project "%s" already exists`, name), c.Degraded())
		return core.Project{}, fmt.Errorf("%w: project %q already exists", core.ErrValidationRejected, name)
	}

	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = core.DefaultProjectEmoji
	}
	color := in.Color
	if color == "" {
		color = core.DefaultProjectColor
	}
	ts := c.now()
	project := core.Project{
		ID:        c.newID(),
		Name:      name,
		Emoji:     emoji,
		Color:     color,
		SortOrder: len(prev),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	project.Normalize()

	next := slices.Concat(prev, []core.Project{project})
	c.swap(nil, next)

	degraded, err := c.persist(ctx, core.ProjectsOnly(next))
	if err != nil {
		return core.Project{}, c.fail(nil, prev, fmt.Sprintf(`Failed to save project "%s"`, name), err)
	}

	c.selectProject(ctx, project.ID)
	c.notify(core.LevelSuccess, fmt.Sprintf(`Created project "%s"`, name), degraded)
	return project, nil
}

// DeleteProject removes a project together with every note it holds, in a
// single save of both collections. If it was selected, the first remaining
// project becomes current. An unknown id is a no-op.
func (c *Collection) DeleteProject(ctx context.Context, id string) (applied bool, err error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.mu.RLock()
	prevNotes, prevProjects, current := c.notes, c.projects, c.currentProjectID
	c.mu.RUnlock()

	i := indexOfProject(prevProjects, id)
	if i < 0 {
		return false, nil
	}
	name := prevProjects[i].Name

	nextProjects := slices.Delete(slices.Clone(prevProjects), i, i+1)
	nextNotes := make([]core.Note, 0, len(prevNotes))
	for _, n := range prevNotes {
		if n.ProjectID != id {
			nextNotes = append(nextNotes, n)
		}
	}
	c.swap(nextNotes, nextProjects)

	degraded, err := c.persist(ctx, core.Both(nextNotes, nextProjects))
	if err != nil {
		return false, c.fail(prevNotes, prevProjects, fmt.Sprintf(`Failed to delete project "%s"`, name), err)
	}

	if current == id {
		next := ""
		if len(nextProjects) > 0 {
			next = nextProjects[0].ID
		}
		c.selectProject(ctx, next)
	}
	c.notify(core.LevelSuccess, fmt.Sprintf(`Deleted project "%s"`, name), degraded)
	return true, nil
}

// SetCurrentProjectID selects a project. An empty id selects All Notes.
func (c *Collection) SetCurrentProjectID(ctx context.Context, id string) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	if id != "" {
		c.mu.RLock()
		known := indexOfProject(c.projects, id) >= 0
		c.mu.RUnlock()
		if !known {
			return fmt.Errorf("project %q: %w", id, core.ErrNotFound)
		}
	}
	c.selectProject(ctx, id)
	return nil
}

// selectProject sets the selection and saves it to the preference slot.
// A failed preference write keeps the in-memory selection.
func (c *Collection) selectProject(ctx context.Context, id string) {
	c.mu.Lock()
	c.currentProjectID = id
	c.mu.Unlock()

	if c.selection == nil {
		return
	}
	if err := c.selection.SetCurrentProject(ctx, id); err != nil {
		c.logWarn("failed to save selected project", err)
	}
}

func indexOfProjectName(projects []core.Project, name string) int {
	lc := strings.ToLower(strings.TrimSpace(name))
	return slices.IndexFunc(projects, func(p core.Project) bool { return p.NameLC == lc })
}
