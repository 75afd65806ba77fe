package main

import (
	"fmt"

	"github.com/aretw0/hearth"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hearth",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hearth version %s\n", hearth.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
