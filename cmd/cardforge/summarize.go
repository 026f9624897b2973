package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [note-id]",
	Short: "Summarize a note, or stdin, with Gemini",
	Long: `Summarize sends the note content (or standard input when no id is given)
to Gemini and prints a one-paragraph summary. Set GEMINI_API_KEY or
summary.api_key to enable it.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		var text string
		if len(args) == 1 {
			note, err := app.Collection.Note(args[0])
			if err != nil {
				fatal("Failed to read note", err)
			}
			text = note.Content
		} else {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			text = string(b)
		}

		out, err := app.Summarizer.Summarize(ctx, text)
		if err != nil {
			fatal("Failed to summarize", err)
		}
		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
