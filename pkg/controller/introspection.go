package controller

import (
	"github.com/aretw0/introspection"
)

// ControllerState exposes internal state for observability.
type ControllerState struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	TimerPending bool   `json:"timer_pending"`
	Closed       bool   `json:"closed"`
	Saves        int    `json:"saves"`
	Deletes      int    `json:"deletes"`
	LastError    string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Controller) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := ControllerState{
		ID:           c.note.ID,
		Status:       c.status.String(),
		TimerPending: c.timer != nil,
		Closed:       c.closed,
		Saves:        c.saves,
		Deletes:      c.deletes,
	}
	if c.lastErr != nil {
		state.LastError = c.lastErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (c *Controller) ComponentType() string {
	return "note"
}

var _ introspection.Introspectable = (*Controller)(nil)
var _ introspection.Component = (*Controller)(nil)
