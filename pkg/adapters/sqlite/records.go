package sqlite

import (
	"time"

	"github.com/aretw0/cardforge/pkg/core"
)

// noteRecord is the row shape of the notes table.
type noteRecord struct {
	ID        string   `gorm:"primaryKey;type:text"`
	ProjectID string   `gorm:"index;not null"`
	Title     string   `gorm:"not null"`
	TitleLC   string   `gorm:"column:title_lc"`
	Content   string
	Tags      []string `gorm:"serializer:json"`
	TagsFlat  string
	Pinned    bool
	DueDate   *string
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (noteRecord) TableName() string { return "notes" }

// projectRecord is the row shape of the projects table.
type projectRecord struct {
	ID        string `gorm:"primaryKey;type:text"`
	Name      string `gorm:"not null"`
	NameLC    string `gorm:"column:name_lc;index"`
	Emoji     string
	Color     string
	SortOrder int
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (projectRecord) TableName() string { return "projects" }

func toNoteRecord(n core.Note) noteRecord {
	c := n.Clone()
	return noteRecord{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Title:     c.Title,
		TitleLC:   c.TitleLC,
		Content:   c.Content,
		Tags:      c.Tags,
		TagsFlat:  c.TagsFlat,
		Pinned:    c.Pinned,
		DueDate:   c.DueDate,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r noteRecord) toNote() core.Note {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return core.Note{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Title:     r.Title,
		TitleLC:   r.TitleLC,
		Content:   r.Content,
		Tags:      tags,
		TagsFlat:  r.TagsFlat,
		Pinned:    r.Pinned,
		DueDate:   r.DueDate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toProjectRecord(p core.Project) projectRecord {
	return projectRecord{
		ID:        p.ID,
		Name:      p.Name,
		NameLC:    p.NameLC,
		Emoji:     p.Emoji,
		Color:     string(p.Color),
		SortOrder: p.SortOrder,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r projectRecord) toProject() core.Project {
	return core.Project{
		ID:        r.ID,
		Name:      r.Name,
		NameLC:    r.NameLC,
		Emoji:     r.Emoji,
		Color:     core.ProjectColor(r.Color),
		SortOrder: r.SortOrder,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
