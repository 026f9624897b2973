package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge/pkg/core"
)

var (
	noteTitle    string
	noteContent  string
	noteTags     []string
	noteProject  string
	notePinned   bool
	noteDue      string
	noteClearDue bool
	noteJSON     bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Create, edit and delete notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a note in the current project",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		in := core.NoteInput{
			Title:   noteTitle,
			Content: noteContent,
			Tags:    noteTags,
			Pinned:  notePinned,
		}
		if len(args) == 1 {
			in.Title = args[0]
		}
		if noteProject != "" {
			in.ProjectID = resolveProject(app, noteProject).ID
		}
		if noteDue != "" {
			in.DueDate = &noteDue
		}

		note, err := app.Collection.CreateNote(ctx, in)
		if err != nil {
			fatal("Failed to create note", err)
		}
		fmt.Println(note.ID)
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		var patch core.NotePatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			patch.Title = &noteTitle
		}
		if flags.Changed("content") {
			patch.Content = &noteContent
		}
		if flags.Changed("tag") {
			patch.Tags = noteTags
		}
		if flags.Changed("pinned") {
			patch.Pinned = &notePinned
		}
		if flags.Changed("project") {
			id := resolveProject(app, noteProject).ID
			patch.ProjectID = &id
		}
		if flags.Changed("due") {
			patch.DueDate = &noteDue
		}
		patch.ClearDueDate = noteClearDue

		note, applied, err := app.Collection.UpdateNote(ctx, args[0], patch)
		if err != nil {
			fatal("Failed to update note", err)
		}
		if !applied {
			fatal("Failed to update note", fmt.Errorf("note %q: %w", args[0], core.ErrNotFound))
		}
		fmt.Println(note.ID)
	},
}

var noteRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		applied, err := app.Collection.DeleteNote(ctx, args[0])
		if err != nil {
			fatal("Failed to delete note", err)
		}
		if !applied {
			fatal("Failed to delete note", fmt.Errorf("note %q: %w", args[0], core.ErrNotFound))
		}
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, _ := openApp(context.Background())
		defer app.Close()

		note, err := app.Collection.Note(args[0])
		if err != nil {
			fatal("Failed to read note", err)
		}
		if noteJSON {
			printJSON(note)
			return
		}

		project := note.ProjectID
		if p, err := app.Collection.Project(note.ProjectID); err == nil {
			project = p.Emoji + " " + p.Name
		}
		fmt.Printf("%s\n", note.Title)
		fmt.Printf("Project: %s\n", project)
		if len(note.Tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(note.Tags, ", "))
		}
		if note.DueDate != nil {
			fmt.Printf("Due: %s\n", *note.DueDate)
		}
		fmt.Printf("Updated: %s\n\n", note.UpdatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Println(note.Content)
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd, noteEditCmd, noteRmCmd, noteShowCmd)

	for _, c := range []*cobra.Command{noteAddCmd, noteEditCmd} {
		c.Flags().StringVar(&noteTitle, "title", "", "Note title")
		c.Flags().StringVarP(&noteContent, "content", "c", "", "Note content")
		c.Flags().StringSliceVarP(&noteTags, "tag", "t", nil, "Tag (repeatable)")
		c.Flags().StringVarP(&noteProject, "project", "p", "", "Project id or name")
		c.Flags().BoolVar(&notePinned, "pinned", false, "Pin the note")
		c.Flags().StringVar(&noteDue, "due", "", "Due date (YYYY-MM-DD)")
	}
	noteEditCmd.Flags().BoolVar(&noteClearDue, "clear-due", false, "Remove the due date")
	noteShowCmd.Flags().BoolVar(&noteJSON, "json", false, "Output in JSON format")
}
