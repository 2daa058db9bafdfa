// Package controller owns the live state of one open note and keeps it in
// sync with the shared store.
//
// Every edit restarts a trailing debounce timer. When the timer fires the
// note is upserted, or deleted when its text is blank. Closing a note
// cancels the timer and flushes a pending save synchronously, so edits made
// inside the debounce window survive a clean shutdown.
package controller

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/avast/retry-go"
	"github.com/google/uuid"

	"github.com/aretw0/floatnote/pkg/core"
	"github.com/aretw0/floatnote/pkg/markup"
	"github.com/aretw0/floatnote/pkg/palette"
)

// Status is the persistence state of a note.
type Status int

const (
	// StatusUnsaved is a fresh note that has never been edited or written.
	StatusUnsaved Status = iota
	// StatusPendingSave means an edit is waiting for the debounce timer (or a retry).
	StatusPendingSave
	// StatusSaved means the store holds the latest in-memory state.
	StatusSaved
	// StatusDeleted means the note was removed from the store.
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusUnsaved:
		return "unsaved"
	case StatusPendingSave:
		return "pending_save"
	case StatusSaved:
		return "saved"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Controller owns one note's live state and its debounced synchronization
// with a core.Store.
type Controller struct {
	store core.Store
	opts  *options
	log   *slog.Logger

	// syncMu serializes this note's store calls so a later write always
	// carries a later snapshot.
	syncMu sync.Mutex

	mu      sync.Mutex
	note    core.Note
	status  Status
	timer   Timer
	gen     uint64 // bumped by every mutation; stale timers compare against it
	closed  bool
	lastErr error
	saves   int
	deletes int
}

// New creates the controller for a note. A nil record creates a fresh note
// with a new ID, the default color and no persisted record; otherwise the
// controller starts from the loaded record.
func New(store core.Store, record *core.Note, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.plainText == nil {
		o.plainText = markup.PlainText
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Controller{store: store, opts: o}

	if record == nil {
		c.note = core.Note{ID: uuid.NewString(), Color: o.defaultColor}
		c.status = StatusUnsaved
	} else {
		c.note = record.Clone()
		if c.note.ID == "" {
			c.note.ID = uuid.NewString()
		}
		if c.note.Color == "" {
			c.note.Color = o.defaultColor
		}
		c.status = StatusSaved
	}
	if c.note.Geometry == nil {
		g := o.defaultGeometry
		c.note.Geometry = &g
	}
	c.log = logger.With("component", "note", "id", c.note.ID)

	if o.view != nil {
		o.view.Render(c.note.Clone())
	}
	return c
}

// ID returns the note's identifier.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.note.ID
}

// Note returns a snapshot of the live note.
func (c *Controller) Note() core.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.note.Clone()
}

// Status returns the current persistence status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastError returns the error of the most recent failed write, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// IsBlank reports whether the note has no visible text.
func (c *Controller) IsBlank() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isBlank(c.note.Content)
}

func (c *Controller) isBlank(content string) bool {
	return markup.IsBlank(c.opts.plainText(content))
}

// SetContent replaces the rich-text markup.
func (c *Controller) SetContent(content string) {
	c.mutate("content", func(n *core.Note) { n.Content = content })
}

// SetColor sets the background color. Palette names resolve to their hex value.
func (c *Controller) SetColor(color string) {
	color = palette.Resolve(color)
	c.mutate("color", func(n *core.Note) { n.Color = color })
}

// SetPinned sets whether the window floats above the others.
func (c *Controller) SetPinned(pinned bool) {
	c.mutate("pinned", func(n *core.Note) { n.Pinned = pinned })
}

// TogglePin flips the pin flag and returns the new value.
func (c *Controller) TogglePin() bool {
	var pinned bool
	c.mutate("pinned", func(n *core.Note) {
		n.Pinned = !n.Pinned
		pinned = n.Pinned
	})
	return pinned
}

// SetGeometry records the window position and size after a move or resize.
func (c *Controller) SetGeometry(g core.Geometry) {
	c.mutate("geometry", func(n *core.Note) { n.Geometry = &g })
}

// RequestNewNote asks the application for a new note, like the window's "+" button.
func (c *Controller) RequestNewNote() {
	c.emit(core.NewEvent(core.EventCreateRequested, c.ID()))
}

// mutate applies fn and restarts the debounce timer.
func (c *Controller) mutate(field string, fn func(n *core.Note)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.log.Debug("edit after close ignored", "field", field)
		return
	}
	fn(&c.note)
	c.gen++
	c.status = StatusPendingSave
	c.scheduleLocked()
}

func (c *Controller) scheduleLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.gen
	c.timer = c.opts.scheduler.AfterFunc(c.opts.debounce, func() {
		c.fire(gen)
	})
}

// fire runs when the debounce timer elapses.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	// Failures are kept in LastError and reported through the observer.
	_ = c.sync(context.Background())
}

// Flush writes a pending change now instead of waiting for the timer.
// It does nothing unless the note is PendingSave.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	return c.sync(ctx)
}

// Retry re-attempts a write that previously failed.
func (c *Controller) Retry(ctx context.Context) error {
	return c.Flush(ctx)
}

// sync persists the current snapshot: upsert when it has text, delete when
// it is blank.
func (c *Controller) sync(ctx context.Context) error {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	c.mu.Lock()
	if c.status != StatusPendingSave {
		c.mu.Unlock()
		return nil
	}
	snap := c.note.Clone()
	gen := c.gen
	blank := c.isBlank(snap.Content)
	c.mu.Unlock()

	var err error
	if blank {
		err = c.persist(ctx, func(ctx context.Context) error { return c.store.Delete(ctx, snap.ID) })
	} else {
		err = c.persist(ctx, func(ctx context.Context) error { return c.store.Upsert(ctx, snap) })
	}

	c.mu.Lock()
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.log.Warn("failed to persist note", "blank", blank, "error", err)
		c.emitErr(snap.ID, err)
		return err
	}

	c.lastErr = nil
	event := core.EventSaved
	if blank {
		event = core.EventDeleted
		c.deletes++
	} else {
		c.saves++
	}
	// An edit that arrived during the write keeps its own timer and status.
	if c.gen == gen {
		if blank {
			c.status = StatusDeleted
		} else {
			c.status = StatusSaved
		}
	}
	c.mu.Unlock()

	c.log.Debug("note synced", "event", event)
	c.emit(core.NewEvent(event, snap.ID))
	return nil
}

// Clear wipes the content and removes the note from the store immediately,
// bypassing the debounce so a pending write cannot resurrect it.
func (c *Controller) Clear(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return core.ErrClosed
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	gen := c.gen
	c.note.Content = ""
	c.status = StatusDeleted
	id := c.note.ID
	c.mu.Unlock()

	c.syncMu.Lock()
	err := c.persist(ctx, func(ctx context.Context) error { return c.store.Delete(ctx, id) })
	c.syncMu.Unlock()

	c.mu.Lock()
	if err != nil {
		c.lastErr = err
		// Leave it to the next edit or Close to retry the delete.
		if c.gen == gen {
			c.status = StatusPendingSave
		}
		c.mu.Unlock()
		c.log.Warn("failed to delete cleared note", "error", err)
		c.emitErr(id, err)
		return err
	}
	c.lastErr = nil
	c.deletes++
	c.mu.Unlock()

	c.emit(core.NewEvent(core.EventDeleted, id))
	return nil
}

// Close cancels the debounce timer and, if a change is pending, saves it
// synchronously before returning. Later edits are ignored. Close is
// idempotent; only the first call emits NOTE_CLOSED.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	id := c.note.ID
	c.mu.Unlock()

	err := c.sync(ctx)
	c.emit(core.NewEvent(core.EventClosed, id))
	return err
}

// persist runs op, retrying persistence errors when WithRetry is set.
func (c *Controller) persist(ctx context.Context, op func(context.Context) error) error {
	if c.opts.retryAttempts <= 1 {
		return op(ctx)
	}
	return retry.Do(
		func() error {
			return op(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(c.opts.retryAttempts),
		retry.Delay(c.opts.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(core.IsPersistence),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Debug("retrying write", "attempt", n+1, "error", err)
		}),
	)
}

func (c *Controller) emit(e core.Event) {
	if c.opts.observer != nil {
		c.opts.observer(e)
	}
}

func (c *Controller) emitErr(id string, err error) {
	e := core.NewEvent(core.EventSaveFailed, id)
	e.Err = err
	c.emit(e)
}
