package core

import (
	"fmt"
	"time"
)

// EventType represents the kind of change a note or the store went through.
type EventType string

// EventCreateRequested asks the owner of the controllers for a fresh note.
// EventClosed is emitted once a controller has been closed and flushed.
// EventSaveFailed carries the PersistenceError in Event.Err.
// EventStoreChanged is emitted when the backing file was changed by someone else.
const (
	EventCreateRequested EventType = "NOTE_CREATE_REQUESTED"
	EventClosed          EventType = "NOTE_CLOSED"
	EventSaved           EventType = "NOTE_SAVED"
	EventDeleted         EventType = "NOTE_DELETED"
	EventSaveFailed      EventType = "SAVE_FAILED"
	EventStoreChanged    EventType = "STORE_CHANGED"
)

// Event represents a change in a note's lifecycle or in the store.
type Event struct {
	Type      EventType
	ID        string
	Err       error
	Timestamp int64 // Unix timestamp
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, id string) Event {
	return Event{Type: t, ID: id, Timestamp: time.Now().Unix()}
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Type, e.ID, e.Err)
	}
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
