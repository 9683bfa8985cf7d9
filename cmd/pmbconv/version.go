package main

import (
	"fmt"

	"pmb-viewer/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pmbconv version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pmbconv %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
