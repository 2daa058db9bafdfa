package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/floatnote/pkg/controller"
	"github.com/aretw0/floatnote/pkg/core"
)

// options holds the internal configuration for a floatnote application.
type options struct {
	store         core.Store
	logger        *slog.Logger
	scheduler     controller.Scheduler
	view          controller.View
	debounce      time.Duration
	defaultColor  string
	geometry      *core.Geometry
	retryAttempts uint
	retryDelay    time.Duration
	lockTimeout   time.Duration
	eventBuffer   int
	readOnly      bool
	devSafety     bool
	forceTemp     bool
}

// Option defines a functional option for configuring floatnote.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety: true,
	}
}

// WithLogger sets the logger for the store, the application and every note.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom store (e.g. a mock).
// If provided, the file store is skipped and the path argument is ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithScheduler replaces the timer source of every note's debounce.
func WithScheduler(s controller.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithView attaches a view that is refreshed whenever a note is (re)loaded.
func WithView(v controller.View) Option {
	return func(o *options) {
		o.view = v
	}
}

// WithDebounce sets the quiet period before an edit is written.
// Zero means default (500ms).
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithDefaultColor sets the color of new notes. Palette names are accepted.
func WithDefaultColor(color string) Option {
	return func(o *options) {
		o.defaultColor = color
	}
}

// WithDefaultGeometry sets the window rectangle of new notes.
func WithDefaultGeometry(g core.Geometry) Option {
	return func(o *options) {
		o.geometry = &g
	}
}

// WithRetry makes notes retry failed writes up to attempts times, delay apart.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryDelay = delay
	}
}

// WithLockTimeout bounds how long a write waits for the store lock.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// WithEventBuffer allows specifying the size of the application event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithReadOnly opens the store in read-only mode: every write returns
// a PersistenceError wrapping core.ErrReadOnly and nothing is created on disk.
// Read-only mode also bypasses the dev sandbox.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the notes file is re-rooted into a temporary directory
// so development runs never touch the user's real notes.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp forces the sandbox even outside development runs.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}
