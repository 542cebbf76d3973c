package papertrail

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// errDryRun rolls back a unit of work whose changes must not persist.
var errDryRun = errors.New("dry run")

// Update fetches the recent papers of followed authors and reconciles them
// with the store, one transaction per author. An author whose fetch or
// transaction fails is recorded in the result and skipped, unless FailFast
// is set. The result is always returned; the error joins the per-author
// failures.
func (p *papertrail) Update(ctx context.Context, opts ...psync.Option) (*psync.Result, error) {
	o := psync.Defaults().Apply(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(errors.ErrCanceled, err)
	}

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx = logging.WithOperation(ctx, "update")
	logger := logging.Ctx(ctx)

	authors, err := p.updateTargets(ctx, o.Authors)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("authors", len(authors)).
		Bool("dry_run", o.DryRun).
		Msg("Starting update")

	result := &psync.Result{DryRun: o.DryRun}
	for _, a := range authors {
		if err := ctx.Err(); err != nil {
			return result, errors.Join(errors.ErrCanceled, err)
		}

		ar := p.updateAuthor(logging.WithAuthor(ctx, a.String()), a, o.DryRun)
		result.Add(ar)
		if ar.Err != nil {
			if errors.Is(ar.Err, errors.ErrCanceled) {
				return result, ar.Err
			}
			if o.FailFast {
				break
			}
		}
	}

	logger.Info().Str("summary", result.Summary()).Msg("Update finished")
	return result, result.Err()
}

// updateTargets resolves the authors an update run covers. Named authors
// must be followed.
func (p *papertrail) updateTargets(ctx context.Context, named []string) ([]papers.Author, error) {
	var out []papers.Author
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		if len(named) == 0 {
			var err error
			out, err = tx.Authors().Followees(ctx)
			return err
		}
		for _, name := range named {
			a, err := followedByName(ctx, tx, name)
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return papers.Unique(out), nil
}

func (p *papertrail) updateAuthor(ctx context.Context, a papers.Author, dryRun bool) *psync.AuthorResult {
	logger := logging.Ctx(ctx)
	ar := &psync.AuthorResult{Author: a}

	fetched, err := p.source.Papers(ctx, p.query(a.String()), 0)
	if err != nil {
		logger.Error().Err(err).Msg("Fetching papers failed, skipping author")
		ar.Err = err
		return ar
	}
	ar.Fetched = len(fetched)

	batch, err := p.reconcile(ctx, fetched, dryRun)
	if err != nil {
		logger.Error().Err(err).Msg("Reconciling papers failed, changes rolled back")
		ar.Err = err
		return ar
	}
	ar.Batch = batch

	logger.Info().Str("counts", batch.Counts.String()).Msg("Author updated")
	return ar
}

// reconcile applies fetched papers in one transaction and fires hooks once
// it commits.
func (p *papertrail) reconcile(ctx context.Context, fetched []*papers.Paper, dryRun bool) (*psync.Batch, error) {
	var batch *psync.Batch
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		var err error
		batch, err = psync.NewEngine(tx.Authors(), tx.Papers()).Reconcile(ctx, fetched)
		if err != nil {
			return err
		}
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if errors.Is(err, errDryRun) {
		return batch, nil
	}
	if err != nil {
		return nil, err
	}
	p.hooks.trigger(batch)
	return batch, nil
}

// Crawl walks the most recent papers of the tracked categories, page by
// page, committing each page. It stops past opts.Stop, at the end of the
// results, or once opts.StopAfterUnchanged known papers have been seen.
func (p *papertrail) Crawl(ctx context.Context, opts psync.CrawlOptions) (*psync.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx = logging.WithOperation(ctx, "crawl")
	logger := logging.Ctx(ctx)

	result := &psync.Result{DryRun: opts.DryRun}
	q := p.query("")
	pageSize := p.source.PageSize()

	for start := opts.Start; start <= opts.Stop; start += pageSize {
		fetched, err := p.source.Papers(ctx, q, start)
		if err != nil {
			return result, err
		}
		if len(fetched) == 0 {
			break
		}

		batch, err := p.reconcile(ctx, fetched, opts.DryRun)
		if err != nil {
			return result, err
		}
		result.Counts.Add(batch.Counts)

		logger.Info().
			Int("start", start).
			Str("counts", batch.Counts.String()).
			Msg("Crawled page")

		if opts.StopAfterUnchanged > 0 && result.Unchanged >= opts.StopAfterUnchanged {
			logger.Info().Int("unchanged", result.Unchanged).Msg("Reached known papers, stopping crawl")
			break
		}
		if len(fetched) < pageSize {
			break
		}
	}

	return result, nil
}
