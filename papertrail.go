// Package papertrail tracks the papers of followed authors on arXiv.
//
// A Papertrail owns a local SQLite store of authors, papers and authorship
// edges, and a fetcher for the arXiv export API. Updates fetch the recent
// papers of every followed author and reconcile them with the store, one
// transaction per author, firing hooks for each committed change.
//
// Example usage:
//
//	pt, err := papertrail.New(ctx, papertrail.WithDatabasePath("papers.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pt.Close()
//
//	pt.OnPaperAdded(func(p *papers.Paper) {
//	    fmt.Println("new:", p.Title())
//	})
//
//	if _, err := pt.Follow(ctx, "Rémi Munos"); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := pt.Update(ctx)
//	fmt.Println(result.Summary())
package papertrail

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agentstation/papertrail/internal/sources/arxiv"
	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/internal/transport"
	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// Compile-time interface check to ensure proper implementation.
var _ Papertrail = (*papertrail)(nil)

// Papertrail manages followed authors and their papers.
type Papertrail interface {
	// Follow finds an author on arXiv and starts tracking their papers
	Follow(ctx context.Context, name string) (papers.Author, error)

	// Unfollow stops tracking a followed author
	Unfollow(ctx context.Context, name string) (papers.Author, error)

	// Followees returns the followed authors ordered by name
	Followees(ctx context.Context) ([]papers.Author, error)

	// Update fetches and reconciles the papers of followed authors
	Update(ctx context.Context, opts ...psync.Option) (*psync.Result, error)

	// Crawl walks the most recent papers of the tracked categories
	Crawl(ctx context.Context, opts psync.CrawlOptions) (*psync.Result, error)

	// Seed loads papers from a Kaggle arXiv metadata snapshot
	Seed(ctx context.Context, r io.Reader, name string, dryRun bool) (*psync.Result, error)

	// Show lists authors with their papers inside a time window
	Show(ctx context.Context, filter Filter) ([]Listing, error)

	// Coauthors returns every author credited on a stored paper
	Coauthors(ctx context.Context, paperID string) ([]papers.Author, error)

	// SearchRemote finds authors on arXiv matching name
	SearchRemote(ctx context.Context, name string, max int) ([]arxiv.Candidate, error)

	// SearchLocal finds stored authors matching name
	SearchLocal(ctx context.Context, name string) ([]papers.Author, error)

	// SearchPapers finds stored papers by title and abstract
	SearchPapers(ctx context.Context, text string, limit int) ([]*papers.Paper, error)

	// SetVisible hides or unhides a stored paper
	SetVisible(ctx context.Context, paperID string, visible bool) error

	// Info returns store statistics
	Info(ctx context.Context) (*Stats, error)

	// Export writes the followed authors to w
	Export(ctx context.Context, w io.Writer, format Format) error

	// Import follows the authors read from r
	Import(ctx context.Context, r io.Reader, format Format) (int, error)

	// Hooks for paper events
	Hooks

	// AutoUpdater controls scheduled updates
	AutoUpdater

	// Close stops scheduled updates and closes the store
	Close() error
}

// Source fetches converted papers from a remote bibliographic source.
// *arxiv.Fetcher is the production implementation.
type Source interface {
	Papers(ctx context.Context, q arxiv.Query, start int) ([]*papers.Paper, error)
	PageSize() int
}

// papertrail is the internal implementation of the Papertrail interface.
type papertrail struct {
	mu      sync.Mutex // serializes updates, crawls and seeds
	options *options
	store   *store.Store
	source  Source
	hooks   *hooks

	updateTicker *time.Ticker
	updateCancel context.CancelFunc
	stopCh       chan struct{}
}

// New opens the store and builds the remote source described by opts.
func New(ctx context.Context, opts ...Option) (Papertrail, error) {
	o := defaults()
	if err := o.apply(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	pt := &papertrail{
		options: o,
		hooks:   newHooks(),
		stopCh:  make(chan struct{}),
		source:  o.source,
		store:   o.store,
	}

	if pt.store == nil {
		s, err := store.Open(ctx, o.dbPath)
		if err != nil {
			return nil, err
		}
		pt.store = s
	}

	if pt.source == nil {
		client := arxiv.NewClient(o.arxivURL, transport.WithTimeout(o.httpTimeout))
		pt.source = arxiv.NewFetcher(client,
			arxiv.WithPageSize(o.pageSize),
			arxiv.WithMaxAttempts(o.maxAttempts),
			arxiv.WithRetryDelay(o.retryDelay, o.retryJitter),
		)
	}

	if o.autoUpdates {
		if err := pt.AutoUpdatesOn(); err != nil {
			_ = pt.store.Close()
			return nil, err
		}
	}

	return pt, nil
}

// Close stops scheduled updates and closes the store.
func (p *papertrail) Close() error {
	if err := p.AutoUpdatesOff(); err != nil {
		return err
	}
	return p.store.Close()
}

// query builds a source query restricted to the tracked categories.
func (p *papertrail) query(author string) arxiv.Query {
	return arxiv.Query{Author: author, Categories: p.options.categories}
}
