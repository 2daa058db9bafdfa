// Package floatnote is the Composition Root for floatnote, a desktop
// sticky-notes persistence core.
//
// It connects the note controllers (what a window edits) with the file
// store (where notes live) and hands back an Application that owns them.
//
// Philosophy:
//
// A note is saved without the user ever pressing "save". Edits are
// coalesced by a trailing debounce and written to a single JSON file that is
// replaced atomically, so a crash mid-write never leaves a half-written
// document behind. A blank note is not kept: erasing every character deletes
// it from storage.
//
// Features:
//
//   - **Autosave**: every field change schedules one write after 500ms of quiet.
//   - **Atomic Writes**: temp file, fsync, rename in the same directory.
//   - **Self-Healing Reads**: a missing or corrupt file loads as no notes.
//   - **Single Writer**: an in-process mutex and a lock file serialize writers.
//   - **Flush on Close**: closing a note or quitting never loses a pending edit.
//
// Usage:
//
//	a, err := floatnote.New("~/.config/floatnote/notes.json",
//		floatnote.WithLogger(logger),
//	)
//	a.Start(ctx)
//	defer a.Quit(ctx)
//
//	note := a.NewNote()
//	note.SetContent("<p>buy milk</p>")
package floatnote
