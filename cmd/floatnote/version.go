package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/floatnote"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of floatnote",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "floatnote version %s\n", strings.TrimSpace(floatnote.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
