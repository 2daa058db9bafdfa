// Package app is the tray-level owner of the open notes.
//
// It creates one controller per persisted note at startup, reacts to the
// events controllers emit (a window closed, a new note was requested) and
// flushes everything on quit. It never writes to the store itself.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/floatnote/pkg/controller"
	"github.com/aretw0/floatnote/pkg/core"
)

const defaultEventBuffer = 100

// Application owns zero or more note controllers keyed by note ID.
type Application struct {
	store     core.Store
	ctrlOpts  []controller.Option
	logger    *slog.Logger
	bufferLen int
	events    chan core.Event

	mu      sync.Mutex
	order   []string
	notes   map[string]*controller.Controller
	dropped int

	// closed holds notes the user closed this session; Sync leaves them shut.
	closed map[string]bool
}

// Option defines a functional option for configuring the Application.
type Option func(*Application)

// WithLogger sets the logger for the application and its controllers.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.logger = logger
	}
}

// WithControllerOptions sets the options every controller is created with.
func WithControllerOptions(opts ...controller.Option) Option {
	return func(a *Application) {
		a.ctrlOpts = append(a.ctrlOpts, opts...)
	}
}

// WithEventBuffer sets the size of the Events channel buffer. Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(a *Application) {
		a.bufferLen = size
	}
}

// New creates an application over store. Call Start to open the persisted notes.
func New(store core.Store, opts ...Option) *Application {
	a := &Application{
		store:  store,
		notes:  make(map[string]*controller.Controller),
		closed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if a.bufferLen <= 0 {
		a.bufferLen = defaultEventBuffer
	}
	a.events = make(chan core.Event, a.bufferLen)
	return a
}

// Events returns every event emitted by the application's controllers, plus
// store changes when Watch is running. Events are dropped (and logged) when
// nobody drains the channel.
func (a *Application) Events() <-chan core.Event {
	return a.events
}

// Start opens one controller per persisted note. When there is none, a
// fresh note is created so the user always has somewhere to type.
// It returns the number of notes open afterwards.
func (a *Application) Start(ctx context.Context) int {
	for _, record := range a.store.LoadAll(ctx) {
		a.Open(record)
	}
	if a.Len() == 0 {
		a.NewNote()
	}
	n := a.Len()
	a.logger.Info("notes loaded", "count", n)
	return n
}

// NewNote creates a fresh, unsaved note.
func (a *Application) NewNote() *controller.Controller {
	return a.add(nil)
}

// Open returns the controller for record, creating it if needed. Opening a
// note the user closed earlier makes it eligible for Sync again.
func (a *Application) Open(record core.Note) *controller.Controller {
	a.mu.Lock()
	delete(a.closed, record.ID)
	a.mu.Unlock()

	if c, ok := a.Get(record.ID); ok {
		return c
	}
	return a.add(&record)
}

func (a *Application) add(record *core.Note) *controller.Controller {
	opts := make([]controller.Option, 0, len(a.ctrlOpts)+2)
	opts = append(opts, controller.WithLogger(a.logger))
	opts = append(opts, a.ctrlOpts...)
	opts = append(opts, controller.WithObserver(a.handle))

	c := controller.New(a.store, record, opts...)
	id := c.ID()

	a.mu.Lock()
	a.notes[id] = c
	a.order = append(a.order, id)
	a.mu.Unlock()

	a.logger.Debug("note opened", "id", id, "fresh", record == nil)
	return c
}

// Get returns the open controller for id.
func (a *Application) Get(id string) (*controller.Controller, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.notes[id]
	return c, ok
}

// Notes returns the open controllers in the order they were opened
// (what "Show All" brings to front).
func (a *Application) Notes() []*controller.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*controller.Controller, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.notes[id])
	}
	return out
}

// Len returns the number of open notes.
func (a *Application) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.notes)
}

// Close closes one note window, flushing its pending edit.
func (a *Application) Close(ctx context.Context, id string) error {
	c, ok := a.Get(id)
	if !ok {
		return nil
	}
	return c.Close(ctx)
}

// Quit closes every open note. Each pending edit is flushed; failures are
// joined and returned, and do not stop the remaining notes from closing.
func (a *Application) Quit(ctx context.Context) error {
	var errs []error
	for _, c := range a.Notes() {
		if err := c.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sync opens controllers for persisted notes that have none, e.g. after
// another process added notes. Notes closed during this session stay closed
// until they are opened explicitly. It returns how many were opened.
func (a *Application) Sync(ctx context.Context) int {
	opened := 0
	for _, record := range a.store.LoadAll(ctx) {
		if a.known(record.ID) {
			continue
		}
		a.add(&record)
		opened++
	}
	return opened
}

// known reports whether id is open or was closed this session.
func (a *Application) known(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, open := a.notes[id]
	return open || a.closed[id]
}

// Watch follows external changes to the store and opens notes that appear.
// It returns an error if the store cannot be watched.
func (a *Application) Watch(ctx context.Context) error {
	w, ok := a.store.(core.Watchable)
	if !ok {
		return errors.New("store does not support watching")
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range changes {
			a.publish(e)
			if n := a.Sync(ctx); n > 0 {
				a.logger.Info("opened notes added externally", "count", n)
			}
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		a.logger.Error("store watch panic", "error", err)
	}))
	return nil
}

// handle is the observer installed on every controller.
func (a *Application) handle(e core.Event) {
	switch e.Type {
	case core.EventClosed:
		a.remove(e.ID)
	case core.EventCreateRequested:
		a.NewNote()
	case core.EventSaveFailed:
		a.logger.Warn("note not saved", "id", e.ID, "error", e.Err)
	}
	a.publish(e)
}

func (a *Application) remove(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.notes[id]; !ok {
		return
	}
	delete(a.notes, id)
	a.closed[id] = true
	for i, v := range a.order {
		if v == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

func (a *Application) publish(e core.Event) {
	select {
	case a.events <- e:
	default:
		a.mu.Lock()
		a.dropped++
		a.mu.Unlock()
		a.logger.Debug("event dropped", "event", e.String())
	}
}
