package papertrail

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
)

// options holds the configuration of a Papertrail instance.
type options struct {
	dbPath     string
	store      *store.Store
	source     Source
	categories []string

	arxivURL    string
	pageSize    int
	maxAttempts uint
	retryDelay  time.Duration
	retryJitter time.Duration
	httpTimeout time.Duration

	autoUpdates        bool
	autoUpdateInterval time.Duration
	autoUpdateFunc     AutoUpdateFunc
}

// Option is a function that configures a Papertrail instance
type Option func(*options) error

func defaults() *options {
	return &options{
		dbPath:             filepath.Join(".", constants.DatabaseFile),
		categories:         slices.Clone(constants.DefaultCategories),
		arxivURL:           constants.ArxivAPIURL,
		pageSize:           constants.DefaultPageSize,
		maxAttempts:        constants.DefaultMaxAttempts,
		retryDelay:         constants.DefaultRetryDelay,
		retryJitter:        constants.DefaultRetryJitter,
		httpTimeout:        constants.DefaultHTTPTimeout,
		autoUpdateInterval: constants.DefaultAutoUpdateInterval,
	}
}

func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// WithDatabasePath sets the SQLite file. store.Memory keeps everything in
// memory.
func WithDatabasePath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.NewValidationError("dbPath", path, "database path is empty")
		}
		o.dbPath = path
		return nil
	}
}

// WithStore uses an already opened store instead of opening one. Close
// still closes it.
func WithStore(s *store.Store) Option {
	return func(o *options) error {
		o.store = s
		return nil
	}
}

// WithSource replaces the arXiv fetcher.
func WithSource(s Source) Option {
	return func(o *options) error {
		o.source = s
		return nil
	}
}

// WithCategories sets the arXiv categories a paper must carry to be tracked.
func WithCategories(categories ...string) Option {
	return func(o *options) error {
		if len(categories) == 0 {
			return errors.NewValidationError("categories", categories, "at least one category is required")
		}
		o.categories = slices.Clone(categories)
		return nil
	}
}

// WithArxivURL sets the arXiv API query endpoint.
func WithArxivURL(url string) Option {
	return func(o *options) error {
		o.arxivURL = url
		return nil
	}
}

// WithPageSize sets the number of records requested per page.
func WithPageSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.NewValidationError("pageSize", n, "page size must be positive")
		}
		o.pageSize = n
		return nil
	}
}

// WithRetry configures how a failed page fetch is retried. Each wait lasts
// delay plus a random duration up to jitter.
func WithRetry(attempts uint, delay, jitter time.Duration) Option {
	return func(o *options) error {
		if attempts == 0 {
			return errors.NewValidationError("maxAttempts", attempts, "at least one attempt is required")
		}
		o.maxAttempts = attempts
		o.retryDelay = delay
		o.retryJitter = jitter
		return nil
	}
}

// WithHTTPTimeout bounds a single request to the arXiv API.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.httpTimeout = d
		return nil
	}
}

// WithAutoUpdates configures whether scheduled updates start with New
func WithAutoUpdates(enabled bool) Option {
	return func(o *options) error {
		o.autoUpdates = enabled
		return nil
	}
}

// WithAutoUpdateInterval configures how often scheduled updates run
func WithAutoUpdateInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoUpdateInterval = interval
		return nil
	}
}

// WithAutoUpdateFunc replaces the work done on each scheduled update
func WithAutoUpdateFunc(fn AutoUpdateFunc) Option {
	return func(o *options) error {
		o.autoUpdateFunc = fn
		return nil
	}
}
