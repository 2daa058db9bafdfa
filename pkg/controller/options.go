package controller

import (
	"log/slog"
	"time"

	"github.com/aretw0/floatnote/pkg/core"
	"github.com/aretw0/floatnote/pkg/palette"
)

const (
	// DefaultDebounce is the quiet period between the last edit and the write.
	DefaultDebounce = 500 * time.Millisecond
)

// DefaultGeometry is the size given to notes that have never been placed.
var DefaultGeometry = core.Geometry{X: 100, Y: 100, Width: 300, Height: 350}

// View is the window/editor side of a note. The controller hands it the
// initial values to render; everything after that flows the other way.
type View interface {
	Render(n core.Note)
}

// options holds the configuration of a Controller.
type options struct {
	scheduler       Scheduler
	debounce        time.Duration
	logger          *slog.Logger
	observer        func(core.Event)
	view            View
	plainText       func(markup string) string
	retryAttempts   uint
	retryDelay      time.Duration
	defaultColor    string
	defaultGeometry core.Geometry
}

// Option defines a functional option for configuring a Controller.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		scheduler:       SystemScheduler{},
		debounce:        DefaultDebounce,
		defaultColor:    palette.Default,
		defaultGeometry: DefaultGeometry,
	}
}

// WithScheduler replaces time.AfterFunc, e.g. with a ManualScheduler driven by a UI loop.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithDebounce sets the quiet period before a save. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers the callback receiving the controller's events
// (saved, deleted, save failed, closed, new note requested).
// It is called outside the controller's locks and may call back into it.
func WithObserver(fn func(core.Event)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithView registers the window that renders the note.
func WithView(v View) Option {
	return func(o *options) {
		o.view = v
	}
}

// WithPlainText lets an editor that already knows its plain text answer
// the emptiness question instead of the markup parser.
func WithPlainText(fn func(markup string) string) Option {
	return func(o *options) {
		o.plainText = fn
	}
}

// WithRetry retries failed writes up to attempts times, delay apart, before
// reporting SAVE_FAILED. Only persistence errors are retried.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryDelay = delay
	}
}

// WithDefaultColor sets the color of fresh notes and of records without one.
func WithDefaultColor(color string) Option {
	return func(o *options) {
		if color != "" {
			o.defaultColor = palette.Resolve(color)
		}
	}
}

// WithDefaultGeometry sets the geometry used for notes that have none.
func WithDefaultGeometry(g core.Geometry) Option {
	return func(o *options) {
		o.defaultGeometry = g
	}
}
