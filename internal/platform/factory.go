package platform

import (
	"context"

	"github.com/aretw0/floatnote/pkg/adapters/fs"
	"github.com/aretw0/floatnote/pkg/app"
	"github.com/aretw0/floatnote/pkg/controller"
	"github.com/aretw0/floatnote/pkg/core"
)

// OpenStore resolves path and returns the file store behind it, creating
// an empty notes file unless the store is read-only.
func OpenStore(path string, opts ...Option) (*fs.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openStore(path, o)
}

func openStore(path string, o *options) (*fs.Store, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	bypassSafety := o.readOnly || !o.devSafety
	if o.forceTemp || (IsDevRun() && !bypassSafety) {
		sandboxed := SandboxPath(resolved)
		if o.logger != nil && sandboxed != resolved {
			o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", resolved, "resolved_path", sandboxed)
		}
		resolved = sandboxed
	}

	store := fs.NewStore(fs.Config{
		Path:        resolved,
		Logger:      o.logger,
		LockTimeout: o.lockTimeout,
		ReadOnly:    o.readOnly,
	})
	if !o.readOnly {
		if err := store.Initialize(context.Background()); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// New wires a store, the note controllers and the application.
// The application is returned unstarted; call Start to open the notes.
//
//	a, err := floatnote.New("~/notes.json", floatnote.WithDebounce(time.Second))
func New(path string, opts ...Option) (*app.Application, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var store core.Store = o.store
	if store == nil {
		s, err := openStore(path, o)
		if err != nil {
			return nil, err
		}
		store = s
	}

	var ctrlOpts []controller.Option
	if o.scheduler != nil {
		ctrlOpts = append(ctrlOpts, controller.WithScheduler(o.scheduler))
	}
	if o.view != nil {
		ctrlOpts = append(ctrlOpts, controller.WithView(o.view))
	}
	if o.debounce > 0 {
		ctrlOpts = append(ctrlOpts, controller.WithDebounce(o.debounce))
	}
	if o.defaultColor != "" {
		ctrlOpts = append(ctrlOpts, controller.WithDefaultColor(o.defaultColor))
	}
	if o.geometry != nil {
		ctrlOpts = append(ctrlOpts, controller.WithDefaultGeometry(*o.geometry))
	}
	if o.retryAttempts > 1 {
		ctrlOpts = append(ctrlOpts, controller.WithRetry(o.retryAttempts, o.retryDelay))
	}

	appOpts := []app.Option{
		app.WithControllerOptions(ctrlOpts...),
		app.WithEventBuffer(o.eventBuffer),
	}
	if o.logger != nil {
		appOpts = append(appOpts, app.WithLogger(o.logger))
	}

	return app.New(store, appOpts...), nil
}
