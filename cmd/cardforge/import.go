package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge/pkg/exchange"
)

var (
	importWatch   string
	importPattern string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import an exported document, or watch a directory for documents",
	Long: `Import adds the projects of an exported document whose names are not
taken yet, together with their notes. Projects that already exist are skipped.

With --watch, matching files already in the directory are imported, then the
directory is watched until interrupted. Each file is renamed with an
.imported or .failed suffix once handled.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if importWatch == "" && len(args) == 0 {
			cmd.Usage()
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, _ := openApp(ctx)
		defer app.Close()

		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				fatal("Failed to open file", err)
			}
			result, err := exchange.Import(ctx, app.Collection, f)
			f.Close()
			if err != nil {
				fatal("Failed to import", err)
			}
			printResult(args[0], result.Projects, result.Notes, result.Skipped)
		}

		if importWatch == "" {
			return
		}

		inbox, err := exchange.NewInbox(importWatch, app.Collection,
			exchange.WithPattern(importPattern),
			exchange.WithInboxLogger(app.Logger()),
			exchange.WithResultHandler(func(r exchange.InboxResult) {
				if r.Err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
					return
				}
				printResult(r.Path, r.Result.Projects, r.Result.Notes, r.Result.Skipped)
			}),
		)
		if err != nil {
			fatal("Invalid inbox", err)
		}
		if err := inbox.Scan(ctx); err != nil {
			fatal("Failed to scan inbox", err)
		}
		fmt.Printf("Watching %s (Ctrl+C to stop)\n", importWatch)
		if err := inbox.Run(ctx); err != nil {
			fatal("Inbox watcher stopped", err)
		}
	},
}

func printResult(source string, projects, notes int, skipped []string) {
	fmt.Printf("%s: imported %d projects and %d notes\n", source, projects, notes)
	for _, name := range skipped {
		fmt.Printf("  skipped existing project %q\n", name)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importWatch, "watch", "w", "", "Directory to watch for documents")
	importCmd.Flags().StringVar(&importPattern, "pattern", exchange.DefaultInboxPattern, "Glob of files to import, relative to the watched directory")
}
