package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mevzuat/internal/legal"
)

var slugCmd = &cobra.Command{
	Use:   "slug TEXT...",
	Short: "Print the URL slug of each argument",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			fmt.Fprintln(cmd.OutOrStdout(), legal.GenerateSlug(a))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(slugCmd)
}
