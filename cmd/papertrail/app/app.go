// Package app provides the application context and dependency management
// for the papertrail CLI. It centralizes configuration, logging and the
// lazily opened papertrail instance shared by every command.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/papertrail"
	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/pkg/errors"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the papertrail application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Papertrail instance (lazy-initialized, singleton)
	mu         sync.RWMutex
	papertrail papertrail.Papertrail
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty for auto-detection.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// LogFile returns where the detailed log is written.
func (a *App) LogFile() string {
	return a.config.LogOutput
}

// UpdateInterval returns the pause between scheduled updates.
func (a *App) UpdateInterval() time.Duration {
	return a.config.UpdateInterval
}

// Papertrail returns the papertrail instance. Without options the shared
// instance is opened on first use; with options a new instance is built on
// top of the configured ones and the caller must close it.
func (a *App) Papertrail(opts ...papertrail.Option) (papertrail.Papertrail, error) {
	if len(opts) > 0 {
		pt, err := papertrail.New(context.Background(), append(a.papertrailOptions(), opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "papertrail", "with custom options", err)
		}
		return pt, nil
	}

	a.mu.RLock()
	if a.papertrail != nil {
		pt := a.papertrail
		a.mu.RUnlock()
		return pt, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.papertrail != nil {
		return a.papertrail, nil
	}

	pt, err := papertrail.New(context.Background(), a.papertrailOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "papertrail", "", err)
	}
	a.papertrail = pt
	return pt, nil
}

// Shutdown stops scheduled updates and closes the store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	pt := a.papertrail
	a.papertrail = nil
	a.mu.Unlock()

	if pt == nil {
		return nil
	}
	if err := pt.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close papertrail during shutdown")
		return err
	}
	return nil
}

// papertrailOptions constructs papertrail options from the app configuration.
func (a *App) papertrailOptions() []papertrail.Option {
	c := a.config
	return []papertrail.Option{
		papertrail.WithDatabasePath(c.DBPath),
		papertrail.WithCategories(c.Categories...),
		papertrail.WithArxivURL(c.ArxivURL),
		papertrail.WithPageSize(c.PageSize),
		papertrail.WithRetry(c.MaxAttempts, c.RetryDelay, c.RetryJitter),
		papertrail.WithHTTPTimeout(c.HTTPTimeout),
		papertrail.WithAutoUpdateInterval(c.UpdateInterval),
	}
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithPapertrail sets a custom papertrail instance (useful for testing).
func WithPapertrail(pt papertrail.Papertrail) Option {
	return func(a *App) error {
		a.papertrail = pt
		return nil
	}
}
