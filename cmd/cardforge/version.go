package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cardforge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cardforge version %s\n", strings.TrimSpace(cardforge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
