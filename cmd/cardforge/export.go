package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge/pkg/exchange"
)

var (
	exportFormat  string
	exportProject string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes as an importable JSON document or a text transcript",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, err := exchange.ParseFormat(exportFormat)
		if err != nil {
			fatal("Invalid format", err)
		}

		app, _ := openApp(context.Background())
		defer app.Close()

		projectID := ""
		if exportProject != "" && exportProject != allProjects {
			projectID = resolveProject(app, exportProject).ID
		}
		snap, project, err := exchange.Select(app.Collection, projectID)
		if err != nil {
			fatal("Failed to export", err)
		}

		now := time.Now()
		var buf bytes.Buffer
		if format == exchange.FormatText {
			err = exchange.WriteText(&buf, snap, project, now)
		} else {
			err = exchange.WriteJSON(&buf, snap)
		}
		if err != nil {
			fatal("Failed to export", err)
		}

		if exportOut == "-" {
			os.Stdout.Write(buf.Bytes())
			return
		}
		out := exportOut
		if out == "" {
			out = exchange.FileName(project, format, now)
		}
		if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			fatal("Failed to write export", err)
		}
		fmt.Printf("%s (%s)\n", exchange.Message(project, format), out)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or txt")
	exportCmd.Flags().StringVarP(&exportProject, "project", "p", "", `Project id or name (default: all)`)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", `Output file, "-" for stdout (default: cardforge-export-<scope>-<date>.<format>)`)
}
