package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/floatnote"
	"github.com/aretw0/floatnote/pkg/core"
	"github.com/aretw0/floatnote/pkg/palette"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	edits := flag.Int("edits", 200, "Number of keystrokes to replay on one note")
	keep := flag.Bool("keep", false, "Keep the benchmark notes file after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "floatnote_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()
	path := filepath.Join(benchDir, "notes.json")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store, err := floatnote.OpenStore(path, floatnote.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	ctx := context.TODO()

	// 1. Bulk write
	fmt.Printf("Generating %d notes in %s...\n", *count, path)
	notes := make([]core.Note, 0, *count)
	for i := 0; i < *count; i++ {
		notes = append(notes, core.Note{
			ID:       uuid.NewString(),
			Content:  fmt.Sprintf("<p>Benchmark note %d</p>", i),
			Color:    palette.Default,
			Geometry: &core.Geometry{X: i % 800, Y: i % 600, Width: 300, Height: 350},
		})
	}
	start := time.Now()
	if err := store.SaveAll(ctx, notes); err != nil {
		panic(err)
	}
	saveAll := time.Since(start)

	// 2. Full read
	start = time.Now()
	loaded := store.LoadAll(ctx)
	loadAll := time.Since(start)

	// 3. Single upsert (read-modify-write of the whole file)
	start = time.Now()
	updated := loaded[len(loaded)/2]
	updated.Content = "<p>updated</p>"
	if err := store.Upsert(ctx, updated); err != nil {
		panic(err)
	}
	upsert := time.Since(start)

	// 4. Typing burst through a controller: the debounce should collapse it.
	a, err := floatnote.New(path, floatnote.WithStore(store), floatnote.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	before := store.State().(floatnote.StoreState).Writes
	c := a.NewNote()
	start = time.Now()
	for i := 0; i < *edits; i++ {
		c.SetContent(fmt.Sprintf("<p>typing %d</p>", i))
	}
	if err := a.Quit(ctx); err != nil {
		panic(err)
	}
	burst := time.Since(start)
	burstWrites := store.State().(floatnote.StoreState).Writes - before

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  SaveAll: %v\n", saveAll)
	fmt.Printf("  LoadAll: %v (Items: %d)\n", loadAll, len(loaded))
	fmt.Printf("  Upsert:  %v\n", upsert)
	fmt.Printf("  Burst:   %v (%d edits, %d writes)\n", burst, *edits, burstWrites)
	fmt.Printf("--------------------------------------------------\n")
}
