package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	notelifecycle "github.com/aretw0/floatnote/pkg/adapters/lifecycle"
	"github.com/aretw0/floatnote/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the notes file for changes",
	Long:  `Watch reports every change another process makes to the notes file until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore()
		if err != nil {
			return err
		}
		events, err := store.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch notes file: %w", err)
		}

		src := notelifecycle.NewSource(events, core.EventStoreChanged)
		if err := src.Start(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", store.Path)
		for e := range src.Events() {
			count := len(store.LoadAll(ctx))
			fmt.Fprintf(out, "%s %s: %d notes\n", time.Now().Format(time.TimeOnly), e, count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
