package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear [id]",
	Short: "Clear a note",
	Long:  `Clear empties a note and removes it from storage immediately, like the window's clear button.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		record, err := findNote(cmd.Context(), store, args[0])
		if err != nil {
			return err
		}
		a, err := openApp(store)
		if err != nil {
			return err
		}

		c := a.Open(record)
		clearErr := c.Clear(cmd.Context())
		// Close retries a failed delete once more.
		if err := a.Quit(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear note: %w", err)
		}
		if clearErr != nil {
			slog.Default().Debug("clear retried on close", "id", c.ID(), "error", clearErr)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note cleared: %s\n", c.ID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
