package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	notesDir string
	dryRun   bool
	watch    bool
	output   io.Writer
	logOut   io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithNotesDir sets the directory holding the notes.
func WithNotesDir(dir string) Option {
	return func(a *application) {
		a.notesDir = dir
	}
}

// WithDryRun reports the notes that would change without writing them.
func WithDryRun(dryRun bool) Option {
	return func(a *application) {
		a.dryRun = dryRun
	}
}

// WithWatch keeps running and re-processes the notes on every change.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}

// WithOutput sets where command output (the dry-run listing) is written.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.output = w
	}
}

// WithLogOutput sets where logs are written.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
