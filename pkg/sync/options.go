// Package sync reconciles papers fetched from a bibliographic source with
// the local store, and carries the options and results of update runs.
package sync

import (
	"time"

	"github.com/agentstation/papertrail/pkg/errors"
)

// Options controls an update run.
type Options struct {
	// DryRun reconciles as usual but rolls every change back.
	DryRun bool
	// FailFast stops at the first author that cannot be synced.
	FailFast bool
	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration
	// Authors restricts the run to these followed authors, given by name.
	// Empty means every followee.
	Authors []string
}

// Option configures Options.
type Option func(*Options)

// Defaults returns the default update options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies opts in order.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   o.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	return nil
}

// WithDryRun rolls back all changes made by the run.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithFailFast stops the run at the first failed author.
func WithFailFast(failFast bool) Option {
	return func(o *Options) {
		o.FailFast = failFast
	}
}

// WithTimeout bounds the run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithAuthors restricts the run to the named followees.
func WithAuthors(names ...string) Option {
	return func(o *Options) {
		o.Authors = append(o.Authors, names...)
	}
}

// CrawlOptions controls a category crawl, which walks the most recent
// papers of the tracked categories page by page.
type CrawlOptions struct {
	// Start is the index of the first result to fetch.
	Start int
	// Stop is the index past which no more pages are requested.
	Stop int
	// StopAfterUnchanged ends the crawl once this many already known papers
	// have been seen.
	StopAfterUnchanged int
	// DryRun rolls every change back.
	DryRun bool
}

// DefaultCrawlOptions returns the crawl bounds used when none are given.
func DefaultCrawlOptions() CrawlOptions {
	return CrawlOptions{
		Start:              0,
		Stop:               10_000,
		StopAfterUnchanged: 100,
	}
}

// Validate checks the crawl bounds.
func (o CrawlOptions) Validate() error {
	if o.Start < 0 {
		return errors.NewValidationError("Start", o.Start, "start index must be non-negative")
	}
	if o.Stop < o.Start {
		return errors.NewValidationError("Stop", o.Stop, "stop index must not be before start index")
	}
	return nil
}
