package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/floatnote/pkg/markup"
	"github.com/aretw0/floatnote/pkg/palette"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Long:  `Show prints a note's fields followed by its visible text. The ID may be abbreviated.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		note, err := findNote(cmd.Context(), store, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showRaw {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(note); err != nil {
				return err
			}
			return enc.Close()
		}

		colorName := note.Color
		if name, ok := palette.NameOf(note.Color); ok {
			colorName = fmt.Sprintf("%s (%s)", name, note.Color)
		}
		fmt.Fprintf(out, "id:       %s\n", note.ID)
		fmt.Fprintf(out, "color:    %s %s\n", swatch(note.Color), colorName)
		fmt.Fprintf(out, "pinned:   %t\n", note.Pinned)
		if note.Geometry != nil {
			fmt.Fprintf(out, "geometry: %s\n", note.Geometry)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, markup.PlainText(note.Content))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the stored record as YAML")
}
