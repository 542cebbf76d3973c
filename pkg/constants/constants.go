// Package constants provides shared constants used throughout papertrail.
package constants

import "time"

// Timeouts and retry pacing for the remote source.
const (
	// DefaultHTTPTimeout bounds a single request to the arXiv API
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxAttempts is the number of tries for one page before giving up
	DefaultMaxAttempts = 5

	// DefaultRetryDelay is the fixed part of the wait between attempts
	DefaultRetryDelay = 2 * time.Second

	// DefaultRetryJitter is the upper bound of the random part of the wait
	DefaultRetryJitter = 4 * time.Second

	// UpdateContextTimeout bounds one scheduled update in watch mode
	UpdateContextTimeout = 30 * time.Minute

	// DefaultAutoUpdateInterval is the pause between scheduled updates
	DefaultAutoUpdateInterval = 24 * time.Hour

	// DefaultShowWindow is how far back `show` looks when no date is given
	DefaultShowWindow = 365 * 24 * time.Hour
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Paging and listing limits
const (
	// DefaultPageSize is the number of records requested from arXiv per query.
	// A page shorter than this is treated as a transient failure.
	DefaultPageSize = 100

	// DefaultSearchResults caps remote author searches
	DefaultSearchResults = 100

	// DefaultShowPapers is the number of papers listed by `show`
	DefaultShowPapers = 10

	// DefaultShowPapersByAuthor is the number of papers per author with `show -a`
	DefaultShowPapersByAuthor = 3

	// SeedBatchSize is the number of snapshot records committed together
	SeedBatchSize = 1000
)

// Data locations
const (
	// AppName names the data directory, the config file and the log file
	AppName = "papertrail"

	// DatabaseFile is the SQLite file inside the data directory
	DatabaseFile = "papertrail.db"

	// LogFile is the detailed log inside the data directory
	LogFile = "papertrail.log"
)

// Remote source defaults
const (
	// ArxivAPIURL is the arXiv export API query endpoint
	ArxivAPIURL = "http://export.arxiv.org/api/query"

	// ArxivAbsURL prefixes paper ids to build a human link
	ArxivAbsURL = "https://arxiv.org/abs/"
)

// DefaultCategories is the allow-list of arXiv categories a paper must carry
// to be considered.
var DefaultCategories = []string{"cs.CV", "cs.LG", "cs.CL", "cs.AI", "cs.NE", "cs.RO"}
