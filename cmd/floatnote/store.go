package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/aretw0/floatnote"
	"github.com/aretw0/floatnote/pkg/core"
	"github.com/aretw0/floatnote/pkg/markup"
)

// configOptions maps the loaded configuration onto floatnote options.
func configOptions() []floatnote.Option {
	return []floatnote.Option{
		floatnote.WithLogger(slog.Default()),
		floatnote.WithDebounce(cfg.Notes.Debounce),
		floatnote.WithDefaultColor(cfg.Notes.DefaultColor),
		floatnote.WithDefaultGeometry(cfg.Geometry()),
		floatnote.WithRetry(cfg.Retry.Attempts, cfg.Retry.Delay),
		floatnote.WithLockTimeout(cfg.Store.LockTimeout),
	}
}

func openStore(extra ...floatnote.Option) (*floatnote.Store, error) {
	store, err := floatnote.OpenStore(cfg.Store.Path, append(configOptions(), extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes file: %w", err)
	}
	return store, nil
}

func openApp(store *floatnote.Store) (*floatnote.Application, error) {
	return floatnote.New(store.Path, append(configOptions(), floatnote.WithStore(store))...)
}

// findNote looks a note up by full ID or by an unambiguous ID prefix.
func findNote(ctx context.Context, store core.Store, id string) (core.Note, error) {
	var matches []core.Note
	for _, n := range store.LoadAll(ctx) {
		if n.ID == id {
			return n, nil
		}
		if strings.HasPrefix(n.ID, id) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return core.Note{}, fmt.Errorf("note %q not found", id)
	case 1:
		return matches[0], nil
	default:
		return core.Note{}, fmt.Errorf("note prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

const summaryWidth = 50

// summary returns the first line of a note's visible text.
func summary(content string) string {
	text := markup.PlainText(content)
	if markup.IsBlank(content) {
		return "(blank)"
	}
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.ReplaceAll(line, markup.ObjectReplacement, "[image]")
	if utf8.RuneCountInString(line) > summaryWidth {
		runes := []rune(line)
		line = string(runes[:summaryWidth-1]) + "…"
	}
	return line
}

// swatch renders a two-cell block in the note's color.
func swatch(hex string) string {
	var r, g, b int
	if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return "  "
	}
	return color.BgRGB(r, g, b).Sprint("  ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
