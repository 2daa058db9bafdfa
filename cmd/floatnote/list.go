package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/floatnote/pkg/core"
)

var (
	listJSON   bool
	listPinned bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		var filtered []core.Note
		for _, note := range store.LoadAll(cmd.Context()) {
			if listPinned && !note.Pinned {
				continue
			}
			filtered = append(filtered, note)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			if filtered == nil {
				filtered = []core.Note{}
			}
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				return fmt.Errorf("error encoding JSON: %w", err)
			}
			return nil
		}

		for _, note := range filtered {
			pin := " "
			if note.Pinned {
				pin = "*"
			}
			fmt.Fprintf(out, "%s %s %s %s\n", swatch(note.Color), shortID(note.ID), pin, summary(note.Content))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listPinned, "pinned", false, "Only list pinned notes")
}
