package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge/pkg/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, _ := openApp(context.Background())
		defer app.Close()

		p := app.Prefs.Load(context.Background())
		fmt.Printf("theme: %s\nview_mode: %s\n", p.Theme, p.ViewMode)
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme <system|light|dark>",
	Short: "Set the theme",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		theme, err := prefs.ParseTheme(args[0])
		if err != nil {
			fatal("Invalid theme", err)
		}

		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()
		if err := app.Prefs.SetTheme(ctx, theme); err != nil {
			fatal("Failed to save theme", err)
		}
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [grid|list]",
	Short: "Set the view mode, or toggle it when no mode is given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, _ := openApp(ctx)
		defer app.Close()

		if len(args) == 0 {
			mode, err := app.Prefs.ToggleViewMode(ctx)
			if err != nil {
				fatal("Failed to save view mode", err)
			}
			fmt.Println(mode)
			return
		}

		mode, err := prefs.ParseViewMode(args[0])
		if err != nil {
			fatal("Invalid view mode", err)
		}
		if err := app.Prefs.SetViewMode(ctx, mode); err != nil {
			fatal("Failed to save view mode", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(themeCmd, viewCmd)
}
