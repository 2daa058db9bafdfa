package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/floatnote/pkg/controller"
	"github.com/aretw0/floatnote/pkg/core"
)

var (
	editContent  string
	editColor    string
	editPin      bool
	editUnpin    bool
	editGeometry string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Long:  `New creates a note. A note without visible text is not saved.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		a, err := openApp(store)
		if err != nil {
			return err
		}

		c := a.NewNote()
		if err := applyEdits(cmd, c); err != nil {
			_ = a.Quit(cmd.Context())
			return err
		}
		if err := a.Quit(cmd.Context()); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}

		out := cmd.OutOrStdout()
		if c.Status() != controller.StatusSaved {
			fmt.Fprintln(out, "Note is blank; nothing saved.")
			return nil
		}
		fmt.Fprintf(out, "Note created: %s\n", c.ID())
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a note",
	Long:  `Edit changes the given fields of a note. Emptying its content deletes it.`,
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
		if err := applyEdits(cmd, c); err != nil {
			_ = a.Quit(cmd.Context())
			return err
		}
		if err := a.Quit(cmd.Context()); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}

		out := cmd.OutOrStdout()
		if c.Status() == controller.StatusDeleted {
			fmt.Fprintf(out, "Note deleted (blank): %s\n", c.ID())
			return nil
		}
		fmt.Fprintf(out, "Note saved: %s\n", c.ID())
		return nil
	},
}

// applyEdits pushes the changed flags through the controller, the same
// path a note window's edits take.
func applyEdits(cmd *cobra.Command, c *controller.Controller) error {
	flags := cmd.Flags()

	var geometry *core.Geometry
	if flags.Changed("geometry") {
		g, err := core.ParseGeometry(editGeometry)
		if err != nil {
			return err
		}
		geometry = &g
	}
	if editPin && editUnpin {
		return fmt.Errorf("--pin and --unpin are mutually exclusive")
	}

	if flags.Changed("content") {
		c.SetContent(editContent)
	}
	if flags.Changed("color") {
		c.SetColor(editColor)
	}
	if flags.Changed("pin") {
		c.SetPinned(editPin)
	}
	if flags.Changed("unpin") {
		c.SetPinned(!editUnpin)
	}
	if geometry != nil {
		c.SetGeometry(*geometry)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(editCmd)

	for _, cmd := range []*cobra.Command{newCmd, editCmd} {
		cmd.Flags().StringVarP(&editContent, "content", "c", "", "Note content (rich-text markup or plain text)")
		cmd.Flags().StringVar(&editColor, "color", "", "Background color: palette name or #RRGGBB")
		cmd.Flags().BoolVar(&editPin, "pin", false, "Keep the note above other windows")
		cmd.Flags().StringVar(&editGeometry, "geometry", "", "Window rectangle as x,y,width,height")
	}
	editCmd.Flags().BoolVar(&editUnpin, "unpin", false, "Stop keeping the note above other windows")
}
