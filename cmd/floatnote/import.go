package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/floatnote/pkg/core"
	"github.com/aretw0/floatnote/pkg/markup"
	"github.com/aretw0/floatnote/pkg/palette"
)

var importCmd = &cobra.Command{
	Use:   "import [glob]",
	Short: "Import notes from JSON or YAML files",
	Long: `Import reads every file matching the glob (e.g. "backups/**/*.yaml") and
upserts its notes. Records without an ID get a new one, and records without a
color or geometry get the configured defaults. Blank notes are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := doublestar.FilepathGlob(args[0])
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files match %q", args[0])
		}

		var notes []core.Note
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			decoded, err := decodeNotes(filepath.Ext(path), data)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			notes = append(notes, decoded...)
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		imported, skipped := 0, 0
		for _, n := range notes {
			if markup.IsBlank(n.Content) {
				skipped++
				continue
			}
			if n.ID == "" {
				n.ID = uuid.NewString()
			}
			if n.Color == "" {
				n.Color = palette.Resolve(cfg.Notes.DefaultColor)
			}
			if n.Geometry == nil {
				g := cfg.Geometry()
				n.Geometry = &g
			}
			if err := store.Upsert(cmd.Context(), n); err != nil {
				return fmt.Errorf("failed to import note %s: %w", n.ID, err)
			}
			imported++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes from %d files (%d blank skipped)\n", imported, len(matches), skipped)
		return nil
	},
}

// decodeNotes accepts a list of notes or a single note, in JSON or YAML.
func decodeNotes(ext string, data []byte) ([]core.Note, error) {
	unmarshal := json.Unmarshal
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	}

	var notes []core.Note
	if err := unmarshal(data, &notes); err == nil {
		return notes, nil
	}
	var single core.Note
	if err := unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []core.Note{single}, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
