package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/floatnote/pkg/palette"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List the note colors",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, name := range palette.Names() {
			hex, _ := palette.Lookup(name)
			marker := ""
			if hex == palette.Default {
				marker = " (default)"
			}
			fmt.Fprintf(out, "%s %-7s %s%s\n", swatch(hex), name, hex, marker)
		}
	},
}

func init() {
	rootCmd.AddCommand(paletteCmd)
}
