// Package core holds the domain model shared by every CardForge component:
// notes, projects, the persisted snapshot shape and the storage contracts.
package core

import "time"

// ProjectColor is one of the fixed palette entries a project can use.
type ProjectColor string

const (
	ColorViolet  ProjectColor = "violet"
	ColorEmerald ProjectColor = "emerald"
	ColorBlue    ProjectColor = "blue"
	ColorAmber   ProjectColor = "amber"
	ColorRose    ProjectColor = "rose"
)

// Palette lists the allowed project colors in display order.
var Palette = []ProjectColor{ColorViolet, ColorEmerald, ColorBlue, ColorAmber, ColorRose}

// Valid reports whether c belongs to the palette.
func (c ProjectColor) Valid() bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// SortBy selects the secondary ordering applied inside each pin group.
type SortBy string

const (
	SortUpdatedDesc SortBy = "updated_desc"
	SortTitleAsc    SortBy = "title_asc"
	SortCreatedDesc SortBy = "created_desc"
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ViewMode is the note list layout preference.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Note is a single user note. TitleLC and TagsFlat are derived caches kept
// in sync by Normalize; they are never computed at query time.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	ProjectID string    `json:"project_id" yaml:"project_id"`
	Title     string    `json:"title" yaml:"title"`
	TitleLC   string    `json:"title_lc" yaml:"title_lc"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags" yaml:"tags"`
	TagsFlat  string    `json:"tags_flat" yaml:"tags_flat"`
	Pinned    bool      `json:"pinned" yaml:"pinned"`
	DueDate   *string   `json:"due_date" yaml:"due_date"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Project groups notes. Names are unique case-insensitively.
type Project struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	NameLC    string       `json:"name_lc" yaml:"name_lc"`
	Emoji     string       `json:"emoji" yaml:"emoji"`
	Color     ProjectColor `json:"color" yaml:"color"`
	SortOrder int          `json:"sort_order" yaml:"sort_order"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Snapshot is the full persisted state: both collections at one point in time.
// It is also the export/import document shape.
type Snapshot struct {
	Projects []Project `json:"projects" yaml:"projects"`
	Notes    []Note    `json:"notes" yaml:"notes"`
}

// Partial selects which collections a SaveAll call replaces.
// A collection not flagged is left untouched by the store.
type Partial struct {
	Notes        []Note
	Projects     []Project
	WithNotes    bool
	WithProjects bool
}

// NotesOnly builds a Partial replacing only the notes collection.
func NotesOnly(notes []Note) Partial {
	return Partial{Notes: notes, WithNotes: true}
}

// ProjectsOnly builds a Partial replacing only the projects collection.
func ProjectsOnly(projects []Project) Partial {
	return Partial{Projects: projects, WithProjects: true}
}

// Both builds a Partial replacing both collections in one operation.
func Both(notes []Note, projects []Project) Partial {
	return Partial{Notes: notes, Projects: projects, WithNotes: true, WithProjects: true}
}

// Empty reports whether the partial selects no collection at all.
func (p Partial) Empty() bool {
	return !p.WithNotes && !p.WithProjects
}
