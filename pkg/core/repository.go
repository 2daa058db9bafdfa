package core

import "context"

//go:generate mockgen -source=repository.go -destination=../../internal/mocks/core/mock_store.go -package=mock_core

// Store defines the contract for the persisted note collection.
// Every mutation is a whole-collection read-modify-write, so implementations
// must serialize them (single writer) when callers run concurrently.
type Store interface {
	// LoadAll returns the persisted collection in order.
	// A missing or corrupt backing document yields an empty slice, never an error.
	LoadAll(ctx context.Context) []Note

	// SaveAll atomically replaces the whole collection with notes.
	SaveAll(ctx context.Context, notes []Note) error

	// Upsert replaces the note with the same ID in place, or appends it.
	Upsert(ctx context.Context, n Note) error

	// Delete removes the note with the given ID. Missing IDs are a no-op.
	Delete(ctx context.Context, id string) error
}

// Watchable defines an interface for stores that can report external changes.
type Watchable interface {
	// Watch emits EventStoreChanged whenever the backing document is
	// modified by another process. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}
