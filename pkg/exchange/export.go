// Package exchange moves collections in and out of files: the importable
// JSON document, a human-readable text transcript, and an inbox directory
// watched for documents to import.
package exchange

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aretw0/cardforge/pkg/core"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// ParseFormat accepts "json", "txt" and "text".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Source is anything holding the two collections.
type Source interface {
	Notes() []core.Note
	Projects() []core.Project
}

const (
	heavyRule = "========================================"
	lightRule = "----------------------------------------"
	// timeLayout renders timestamps the way an en-US locale string does.
	timeLayout = "1/2/2006, 3:04:05 PM"
)

// Select builds the document to export. With a project id, it holds that
// project and its notes; otherwise everything.
func Select(src Source, projectID string) (core.Snapshot, *core.Project, error) {
	projects := src.Projects()
	notes := src.Notes()
	if projectID == "" {
		return core.Snapshot{Projects: projects, Notes: notes}, nil, nil
	}

	i := slices.IndexFunc(projects, func(p core.Project) bool { return p.ID == projectID })
	if i < 0 {
		return core.Snapshot{}, nil, fmt.Errorf("project %q: %w", projectID, core.ErrNotFound)
	}
	project := projects[i]
	scoped := make([]core.Note, 0)
	for _, n := range notes {
		if n.ProjectID == projectID {
			scoped = append(scoped, n)
		}
	}
	return core.Snapshot{Projects: []core.Project{project}, Notes: scoped}, &project, nil
}

// FileName returns the download name of an export made at now.
func FileName(project *core.Project, format Format, now time.Time) string {
	scope := "all"
	if project != nil {
		scope = project.NameLC
	}
	return fmt.Sprintf("cardforge-export-%s-%s.%s", scope, now.Format(time.DateOnly), format)
}

// WriteJSON writes the document pretty-printed.
func WriteJSON(w io.Writer, snap core.Snapshot) error {
	if snap.Projects == nil {
		snap.Projects = []core.Project{}
	}
	if snap.Notes == nil {
		snap.Notes = []core.Note{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// WriteText writes a readable transcript. When project is nil the notes are
// ordered by the name of their project.
func WriteText(w io.Writer, snap core.Snapshot, project *core.Project, now time.Time) error {
	names := make(map[string]string, len(snap.Projects))
	for _, p := range snap.Projects {
		names[p.ID] = p.Name
	}

	title := "All Notes"
	notes := slices.Clone(snap.Notes)
	if project != nil {
		title = project.Name
	} else {
		col := collate.New(language.English)
		slices.SortStableFunc(notes, func(a, b core.Note) int {
			return col.CompareString(names[a.ProjectID], names[b.ProjectID])
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CardForge Notes Export - %s\n", title)
	fmt.Fprintf(&b, "Generated on: %s\n", now.Format(timeLayout))
	fmt.Fprintf(&b, "Total Notes: %d\n\n", len(notes))
	b.WriteString(heavyRule + "\n\n")

	for i, n := range notes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, n.Title)
		if name, ok := names[n.ProjectID]; ok {
			fmt.Fprintf(&b, "   Project: %s\n", name)
		}
		if len(n.Tags) > 0 {
			fmt.Fprintf(&b, "   Tags: %s\n", strings.Join(n.Tags, ", "))
		}
		fmt.Fprintf(&b, "   Updated: %s\n\n", n.UpdatedAt.Local().Format(timeLayout))
		if n.Content != "" {
			b.WriteString(n.Content + "\n\n")
		}
		b.WriteString(lightRule + "\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Message is the notification text for a finished export.
func Message(project *core.Project, format Format) string {
	if format == FormatText {
		return "Exported notes as text"
	}
	if project != nil {
		return fmt.Sprintf(`Exported "%s" as JSON`, project.Name)
	}
	return "Exported all data as JSON"
}
