package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note from the notes file.`,
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

		if err := store.Delete(cmd.Context(), note.ID); err != nil {
			return fmt.Errorf("error deleting note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
