package core

import "strings"

// TagSeparator joins lowercased tags into Note.TagsFlat.
const TagSeparator = " "

// Defaults applied when a create call omits a field.
const (
	DefaultNoteTitle    = "Untitled Note"
	DefaultProjectName  = "Untitled Project"
	DefaultProjectEmoji = "📁"
	DefaultProjectColor = ColorViolet
)

// FlattenTags returns the lowercased tags joined by TagSeparator.
func FlattenTags(tags []string) string {
	return strings.ToLower(strings.Join(tags, TagSeparator))
}

// Normalize recomputes the derived fields of n.
// Every create and update path goes through here.
func (n *Note) Normalize() {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	n.TitleLC = strings.ToLower(n.Title)
	n.TagsFlat = FlattenTags(n.Tags)
}

// Normalize recomputes the derived fields of p.
func (p *Project) Normalize() {
	p.NameLC = strings.ToLower(p.Name)
}

// Clone returns a deep copy of n; Tags and DueDate are not shared.
func (n Note) Clone() Note {
	out := n
	if n.Tags != nil {
		out.Tags = append(make([]string, 0, len(n.Tags)), n.Tags...)
	}
	if n.DueDate != nil {
		d := *n.DueDate
		out.DueDate = &d
	}
	return out
}

// CloneNotes deep-copies a note slice.
func CloneNotes(notes []Note) []Note {
	if notes == nil {
		return nil
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// CloneProjects copies a project slice (projects hold no reference fields).
func CloneProjects(projects []Project) []Project {
	if projects == nil {
		return nil
	}
	return append([]Project(nil), projects...)
}

// NoteInput carries the caller-provided fields of a new note.
// Zero values fall back to defaults.
type NoteInput struct {
	ProjectID string   `json:"project_id"`
	Title     string   `json:"title" validate:"max=500"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags" validate:"dive,max=100"`
	Pinned    bool     `json:"pinned"`
	DueDate   *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// NotePatch carries a partial note update. A nil field is left unchanged;
// Tags is replaced when non-nil (an empty slice clears it) and ClearDueDate
// removes the due date.
type NotePatch struct {
	ProjectID    *string  `json:"project_id,omitempty"`
	Title        *string  `json:"title,omitempty" validate:"omitempty,max=500"`
	Content      *string  `json:"content,omitempty"`
	Tags         []string `json:"tags,omitempty" validate:"omitempty,dive,max=100"`
	Pinned       *bool    `json:"pinned,omitempty"`
	DueDate      *string  `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ClearDueDate bool     `json:"clear_due_date,omitempty"`
}

// Apply merges the patch over n. It does not touch timestamps or derived fields.
func (p NotePatch) Apply(n *Note) {
	if p.ProjectID != nil {
		n.ProjectID = *p.ProjectID
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = append([]string{}, p.Tags...)
	}
	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}
	if p.ClearDueDate {
		n.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		n.DueDate = &d
	}
}

// ProjectInput carries the caller-provided fields of a new project.
type ProjectInput struct {
	Name  string       `json:"name" validate:"max=200"`
	Emoji string       `json:"emoji" validate:"max=16"`
	Color ProjectColor `json:"color" validate:"omitempty,oneof=violet emerald blue amber rose"`
}
