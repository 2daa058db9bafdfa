package fs_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/floatnote/pkg/adapters/fs"
	"github.com/aretw0/floatnote/pkg/core"
)

func newStore(t *testing.T) *fs.Store {
	t.Helper()
	return fs.NewStore(fs.Config{Path: filepath.Join(t.TempDir(), "notes.json")})
}

func note(id, content string) core.Note {
	return core.Note{
		ID:       id,
		Content:  content,
		Color:    "#FFF7D1",
		Geometry: &core.Geometry{X: 10, Y: 10, Width: 300, Height: 350},
	}
}

func ids(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	records := []core.Note{note("c3", "third"), note("a1", "first"), note("b2", "second")}
	records[1].Pinned = true

	require.NoError(t, store.SaveAll(ctx, records))
	assert.Equal(t, records, store.LoadAll(ctx))
}

func TestStore_FileLayout(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SaveAll(ctx, []core.Note{note("a1", "hello")}))

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Len(t, raw[0], 5)
	assert.Equal(t, "a1", raw[0]["id"])
	assert.Equal(t, []any{10.0, 10.0, 300.0, 350.0}, raw[0]["geometry"])
}

func TestStore_SelfHealingRead(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"empty file", ptr("")},
		{"whitespace", ptr("  \n")},
		{"invalid json", ptr(`[{"id": "a1",`)},
		{"wrong shape", ptr(`{"id": "a1"}`)},
		{"null", ptr("null")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(store.Path, []byte(*tt.content), 0644))
			}
			notes := store.LoadAll(context.Background())
			assert.NotNil(t, notes)
			assert.Empty(t, notes)
		})
	}
}

func TestStore_ReadDropsInvalidRecords(t *testing.T) {
	store := newStore(t)
	doc := `[{"id":"a1","content":"x"},{"id":"","content":"orphan"},{"id":"a1","content":"dup"},{"id":"b2"}]`
	require.NoError(t, os.WriteFile(store.Path, []byte(doc), 0644))

	notes := store.LoadAll(context.Background())
	assert.Equal(t, []string{"a1", "b2"}, ids(notes))
	assert.Equal(t, "x", notes[0].Content)
}

func TestStore_UpsertReplace(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.SaveAll(ctx, []core.Note{note("a1", "one"), note("x", "old"), note("b2", "two")}))

	updated := note("x", "new")
	updated.Color = "#E2F0FB"
	require.NoError(t, store.Upsert(ctx, updated))

	notes := store.LoadAll(ctx)
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"a1", "x", "b2"}, ids(notes))
	assert.Equal(t, updated, notes[1])
}

func TestStore_UpsertAppend(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.SaveAll(ctx, []core.Note{note("a1", "one")}))

	require.NoError(t, store.Upsert(ctx, note("y", "appended")))

	notes := store.LoadAll(ctx)
	assert.Equal(t, []string{"a1", "y"}, ids(notes))
	assert.Equal(t, "appended", notes[1].Content)
}

func TestStore_UpsertIntoMissingFile(t *testing.T) {
	ctx := context.Background()
	store := fs.NewStore(fs.Config{Path: filepath.Join(t.TempDir(), "nested", "dir", "notes.json")})

	require.NoError(t, store.Upsert(ctx, note("a1", "hello")))
	assert.Equal(t, []string{"a1"}, ids(store.LoadAll(ctx)))
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.SaveAll(ctx, []core.Note{note("a1", "one"), note("b2", "two")}))

	before, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	writes := store.State().(fs.StoreState).Writes

	require.NoError(t, store.Delete(ctx, "missing"))

	after, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, writes, store.State().(fs.StoreState).Writes)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.SaveAll(ctx, []core.Note{note("a1", "one"), note("b2", "two"), note("c3", "three")}))

	require.NoError(t, store.Delete(ctx, "b2"))
	assert.Equal(t, []string{"a1", "c3"}, ids(store.LoadAll(ctx)))

	require.NoError(t, store.Delete(ctx, "a1"))
	require.NoError(t, store.Delete(ctx, "c3"))
	assert.Empty(t, store.LoadAll(ctx))

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestStore_SaveAllRejectsInvalidCollections(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	err := store.SaveAll(ctx, []core.Note{note("a1", "x"), note("a1", "y")})
	assert.ErrorIs(t, err, core.ErrDuplicateID)
	assert.False(t, core.IsPersistence(err))

	err = store.SaveAll(ctx, []core.Note{note("", "x")})
	assert.ErrorIs(t, err, core.ErrEmptyID)

	assert.ErrorIs(t, store.Upsert(ctx, note("", "x")), core.ErrEmptyID)

	_, statErr := os.Stat(store.Path)
	assert.True(t, os.IsNotExist(statErr), "rejected writes must not touch the disk")
}

func TestStore_WriteFailureIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	store := fs.NewStore(fs.Config{Path: filepath.Join(blocker, "notes.json")})

	err := store.Upsert(ctx, note("a1", "hello"))
	require.Error(t, err)

	var pe *core.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, store.Path, pe.Path)
	assert.NotEmpty(t, store.State().(fs.StoreState).LastError)

	// Reads still heal.
	assert.Empty(t, store.LoadAll(ctx))
}

func TestStore_UnreadableDocumentFailsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	// A directory in place of the document can be stat'ed but not read.
	require.NoError(t, os.Mkdir(path, 0755))
	store := fs.NewStore(fs.Config{Path: path})

	for name, write := range map[string]func() error{
		"upsert": func() error { return store.Upsert(ctx, note("a1", "x")) },
		"delete": func() error { return store.Delete(ctx, "a1") },
	} {
		t.Run(name, func(t *testing.T) {
			err := write()
			require.Error(t, err)

			var pe *core.PersistenceError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "read", pe.Op)
			assert.Equal(t, path, pe.Path)

			info, statErr := os.Stat(path)
			require.NoError(t, statErr)
			assert.True(t, info.IsDir(), "the unreadable entry must be left in place")
		})
	}

	assert.Equal(t, 0, store.State().(fs.StoreState).Writes)
	assert.Empty(t, store.LoadAll(ctx))
}

func TestStore_PermissionDeniedKeepsOtherRecords(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions do not apply to root")
	}
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.SaveAll(ctx, []core.Note{note("a1", "one"), note("b2", "two")}))
	require.NoError(t, os.Chmod(store.Path, 0000))
	t.Cleanup(func() { _ = os.Chmod(store.Path, 0644) })

	err := store.Upsert(ctx, note("c3", "three"))
	assert.True(t, core.IsPersistence(err))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.True(t, core.IsPersistence(store.Delete(ctx, "a1")))

	require.NoError(t, os.Chmod(store.Path, 0644))
	assert.Equal(t, []string{"a1", "b2"}, ids(store.LoadAll(ctx)))
}

func TestStore_RejectsNotesWithoutGeometry(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	shapeless := note("a1", "x")
	shapeless.Geometry = nil

	err := store.Upsert(ctx, shapeless)
	assert.ErrorIs(t, err, core.ErrNoGeometry)
	assert.False(t, core.IsPersistence(err))

	err = store.SaveAll(ctx, []core.Note{note("b2", "y"), shapeless})
	assert.ErrorIs(t, err, core.ErrNoGeometry)

	_, statErr := os.Stat(store.Path)
	assert.True(t, os.IsNotExist(statErr), "rejected writes must not touch the disk")

	require.NoError(t, store.Upsert(ctx, note("b2", "y")))
	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestStore_LoadAllWithDoneContext(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveAll(context.Background(), []core.Note{note("a1", "one")}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notes := store.LoadAll(ctx)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.Len(t, store.LoadAll(context.Background()), 1)
}

func TestStore_CorruptDocumentIsMovedAside(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path, []byte("{not json"), 0644))

	require.NoError(t, store.Upsert(ctx, note("a1", "hello")))
	assert.Equal(t, []string{"a1"}, ids(store.LoadAll(ctx)))

	backups, err := filepath.Glob(store.Path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, backups, 1)

	data, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestStore_ConcurrentUpsertsKeepEveryRecord(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Upsert(ctx, note(fmt.Sprintf("note-%02d", i), "content")))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.LoadAll(ctx), writers)
}

func TestStore_TwoStoresSameFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	first := fs.NewStore(fs.Config{Path: path})
	second := fs.NewStore(fs.Config{Path: path})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, first.Upsert(ctx, note(fmt.Sprintf("a-%d", i), "x")))
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, second.Upsert(ctx, note(fmt.Sprintf("b-%d", i), "y")))
		}(i)
	}
	wg.Wait()

	assert.Len(t, first.LoadAll(ctx), 20)
}

func TestStore_ReadersNeverSeePartialWrites(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	store := newStore(t)
	require.NoError(t, store.SaveAll(ctx, []core.Note{note("seed", "x")}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ctx.Err() == nil; i++ {
			_ = store.Upsert(context.Background(), note(fmt.Sprintf("n-%d", i%50), fmt.Sprintf("content %d", i)))
		}
	}()

	for ctx.Err() == nil {
		data, err := os.ReadFile(store.Path)
		require.NoError(t, err)
		var raw []core.Note
		require.NoError(t, json.Unmarshal(data, &raw), "observed a partially written document")
	}
	<-done
}

func TestStore_LockTimeout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	store := fs.NewStore(fs.Config{Path: path, LockTimeout: 50 * time.Millisecond})

	require.NoError(t, os.WriteFile(path+".lock", []byte("12345\n"), 0644))

	err := store.Upsert(ctx, note("a1", "x"))
	assert.ErrorIs(t, err, fs.ErrLockTimeout)
	assert.True(t, core.IsPersistence(err))
}

func TestStore_StaleLockIsBroken(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	store := fs.NewStore(fs.Config{Path: path, LockTimeout: 50 * time.Millisecond, StaleLock: time.Minute})

	lock := path + ".lock"
	require.NoError(t, os.WriteFile(lock, []byte("12345\n"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(lock, old, old))

	require.NoError(t, store.Upsert(ctx, note("a1", "x")))
	_, err := os.Stat(lock)
	assert.True(t, os.IsNotExist(err), "lock file must be released")
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, fs.NewStore(fs.Config{Path: path}).SaveAll(ctx, []core.Note{note("a1", "x")}))

	ro := fs.NewStore(fs.Config{Path: path, ReadOnly: true})
	assert.Equal(t, []string{"a1"}, ids(ro.LoadAll(ctx)))

	err := ro.Delete(ctx, "a1")
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.Len(t, ro.LoadAll(ctx), 1)
}

func TestStore_Initialize(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cfg", "notes.json")
	store := fs.NewStore(fs.Config{Path: path})

	require.NoError(t, store.Initialize(ctx))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	// Existing documents are left alone.
	require.NoError(t, store.Upsert(ctx, note("a1", "x")))
	require.NoError(t, store.Initialize(ctx))
	assert.Len(t, store.LoadAll(ctx), 1)
}

func ptr(s string) *string { return &s }
