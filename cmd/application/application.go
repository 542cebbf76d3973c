// Package application provides the application interface for papertrail
// commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            pt, err := app.Papertrail()
//	            if err != nil {
//	                return err
//	            }
//	            stats, err := pt.Info(cmd.Context())
//	            // ... print stats
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    PapertrailFunc: func(...papertrail.Option) (papertrail.Papertrail, error) {
//	        return testPapertrail, nil
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/papertrail"
)

// Application provides the application interface that commands need.
// The App struct from cmd/papertrail/app implements it.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Papertrail returns the papertrail instance with optional configuration.
	// When called without options, returns the default cached instance (lazy-initialized, thread-safe).
	// When called with options, creates a new instance on top of the configured ones (no caching).
	Papertrail(opts ...papertrail.Option) (papertrail.Papertrail, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// LogFile returns the path of the detailed log, for error hints.
	LogFile() string

	// UpdateInterval returns the pause between scheduled updates.
	UpdateInterval() time.Duration

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
