package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge/pkg/query"
)

const allProjects = "all"

var (
	listJSON    bool
	listProject string
	listSearch  string
	listSort    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes of the current project, pinned first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, _ := openApp(context.Background())
		defer app.Close()

		params := query.Params{
			ProjectID: app.Collection.CurrentProjectID(),
			Search:    listSearch,
			SortBy:    query.ParseSortBy(listSort),
		}
		switch listProject {
		case "":
		case allProjects:
			params.ProjectID = ""
		default:
			params.ProjectID = resolveProject(app, listProject).ID
		}

		notes := query.FilteredNotes(app.Collection.Notes(), params)
		if listJSON {
			printJSON(notes)
			return
		}

		for _, n := range notes {
			pin := " "
			if n.Pinned {
				pin = "📌"
			}
			fmt.Printf("%s %s %s\n", pin, n.ID, n.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", `Project id or name, or "all"`)
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive text in title, content or tags")
	listCmd.Flags().StringVar(&listSort, "sort", "updated_desc", "updated_desc, title_asc or created_desc")
}
