package main

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the storage backend in use and component state as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, _ := openApp(context.Background())
		defer app.Close()

		printJSON(app.Status())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
