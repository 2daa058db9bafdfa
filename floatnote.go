package floatnote

import (
	"log/slog"
	"time"

	"github.com/aretw0/floatnote/internal/platform"
	"github.com/aretw0/floatnote/pkg/adapters/fs"
	"github.com/aretw0/floatnote/pkg/app"
	"github.com/aretw0/floatnote/pkg/controller"
	"github.com/aretw0/floatnote/pkg/core"
)

// --- Types ---

// Note is a public alias for the persisted note record.
type Note = core.Note

// Geometry is a public alias for a note window rectangle.
type Geometry = core.Geometry

// Application is a public alias for the owner of the open notes.
type Application = app.Application

// Controller is a public alias for a single note's controller.
type Controller = controller.Controller

// Store is a public alias for the file-backed note store.
type Store = fs.Store

// StoreState is a public alias for the store's introspection snapshot.
type StoreState = fs.StoreState

// --- Configuration ---

// Option defines a functional option for configuring floatnote.
type Option = platform.Option

// WithLogger sets the logger for the store, the application and every note.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithScheduler replaces the timer source of every note's debounce.
func WithScheduler(s controller.Scheduler) Option {
	return platform.WithScheduler(s)
}

// WithView attaches a view refreshed whenever a note is loaded.
func WithView(v controller.View) Option {
	return platform.WithView(v)
}

// WithDebounce sets the quiet period before an edit is written.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithDefaultColor sets the color of new notes.
func WithDefaultColor(color string) Option {
	return platform.WithDefaultColor(color)
}

// WithDefaultGeometry sets the window rectangle of new notes.
func WithDefaultGeometry(g Geometry) Option {
	return platform.WithDefaultGeometry(g)
}

// WithRetry makes notes retry failed writes.
func WithRetry(attempts uint, delay time.Duration) Option {
	return platform.WithRetry(attempts, delay)
}

// WithLockTimeout bounds how long a write waits for the store lock.
func WithLockTimeout(d time.Duration) Option {
	return platform.WithLockTimeout(d)
}

// WithEventBuffer allows specifying the size of the application event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithReadOnly opens the store in read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the notes file into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// --- Factory ---

// New creates an application over the notes file at path. Call Start on it
// to open the persisted notes and Quit to flush them.
func New(path string, opts ...Option) (*Application, error) {
	return platform.New(path, opts...)
}

// OpenStore opens the notes file at path without any controllers.
func OpenStore(path string, opts ...Option) (*Store, error) {
	return platform.OpenStore(path, opts...)
}

// ResolvePath turns a user-supplied location into an absolute notes file path.
func ResolvePath(path string) (string, error) {
	return platform.ResolvePath(path)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
