package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge/pkg/core"
)

var (
	projectEmoji string
	projectColor string
	projectJSON  bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project and select it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		p, err := app.Collection.CreateProject(ctx, core.ProjectInput{
			Name:  args[0],
			Emoji: projectEmoji,
			Color: core.ProjectColor(projectColor),
		})
		if err != nil {
			fatal("Failed to create project", err)
		}
		fmt.Println(p.ID)
	},
}

var projectRmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"delete"},
	Short:   "Delete a project and all of its notes",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		p := resolveProject(app, args[0])
		if _, err := app.Collection.DeleteProject(ctx, p.ID); err != nil {
			fatal("Failed to delete project", err)
		}
	},
}

var projectUseCmd = &cobra.Command{
	Use:   "use <id|name|all>",
	Short: "Select the current project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		id := ""
		if args[0] != allProjects {
			id = resolveProject(app, args[0]).ID
		}
		if err := app.Collection.SetCurrentProjectID(ctx, id); err != nil {
			fatal("Failed to select project", err)
		}
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in display order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, _ := openApp(context.Background())
		defer app.Close()

		projects := app.Collection.Projects()
		if projectJSON {
			printJSON(projects)
			return
		}

		current := app.Collection.CurrentProjectID()
		counts := make(map[string]int)
		for _, n := range app.Collection.Notes() {
			counts[n.ProjectID]++
		}
		for _, p := range projects {
			marker := " "
			if p.ID == current {
				marker = "*"
			}
			fmt.Printf("%s %s %s %s (%d)\n", marker, p.ID, p.Emoji, p.Name, counts[p.ID])
		}
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd, projectRmCmd, projectUseCmd, projectListCmd)

	projectAddCmd.Flags().StringVar(&projectEmoji, "emoji", "", "Project emoji")
	projectAddCmd.Flags().StringVar(&projectColor, "color", "", "Color: violet, emerald, blue, amber or rose")
	projectListCmd.Flags().BoolVar(&projectJSON, "json", false, "Output in JSON format")
}
