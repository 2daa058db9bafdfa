package app

import (
	"github.com/aretw0/introspection"
)

// ApplicationState exposes internal state for observability.
type ApplicationState struct {
	OpenNotes     []string `json:"open_notes"`
	EventBuffer   int      `json:"event_buffer"`
	DroppedEvents int      `json:"dropped_events"`
	StoreType     string   `json:"store_type"`
}

// State implements introspection.Introspectable.
func (a *Application) State() any {
	a.mu.Lock()
	defer a.mu.Unlock()

	storeType := "unknown"
	if comp, ok := a.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	return ApplicationState{
		OpenNotes:     append([]string(nil), a.order...),
		EventBuffer:   a.bufferLen,
		DroppedEvents: a.dropped,
		StoreType:     storeType,
	}
}

// ComponentType implements introspection.Component.
func (a *Application) ComponentType() string {
	return "application"
}

var _ introspection.Introspectable = (*Application)(nil)
var _ introspection.Component = (*Application)(nil)
