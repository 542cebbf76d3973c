package arxiv

import (
	"context"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Page problems the API is known to produce intermittently.
var (
	ErrEmptyPage = errors.New("empty page")
	ErrShortPage = errors.New("short page")
)

// Searcher fetches a single page of results.
type Searcher interface {
	Search(ctx context.Context, q Query, start, max int) (*Page, error)
}

// Fetcher requests pages from a Searcher and retries the ones that come
// back empty, short or failed with a transient error.
type Fetcher struct {
	searcher Searcher
	pageSize int
	attempts uint
	delay    time.Duration
	jitter   time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithPageSize sets the number of results requested per page.
func WithPageSize(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithMaxAttempts sets how many times a page is requested before giving up.
func WithMaxAttempts(n uint) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithRetryDelay sets the fixed pause between attempts and the upper bound
// of the random pause added to it.
func WithRetryDelay(delay, jitter time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.delay = max(delay, 0)
		f.jitter = max(jitter, 0)
	}
}

// NewFetcher returns a fetcher over s.
func NewFetcher(s Searcher, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		searcher: s,
		pageSize: constants.DefaultPageSize,
		attempts: constants.DefaultMaxAttempts,
		delay:    constants.DefaultRetryDelay,
		jitter:   constants.DefaultRetryJitter,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// PageSize returns the number of results requested per page.
func (f *Fetcher) PageSize() int { return f.pageSize }

// Page fetches the page of q starting at start. Once every attempt has
// failed the last error is returned inside an *errors.FetchError.
func (f *Fetcher) Page(ctx context.Context, q Query, start int) (*Page, error) {
	logger := logging.Ctx(ctx)

	var attempts uint
	page, err := retry.DoWithData(
		func() (*Page, error) {
			attempts++
			p, err := f.searcher.Search(ctx, q, start, f.pageSize)
			if err != nil {
				return nil, err
			}
			if err := f.check(p, start); err != nil {
				return nil, err
			}
			return p, nil
		},
		f.retryOptions(ctx, func(n uint, err error) {
			logger.Warn().
				Err(err).
				Uint("attempt", n+1).
				Str("query", q.String()).
				Int("start", start).
				Msg("Fetch failed, retrying")
		})...,
	)
	if err == nil {
		return page, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Join(errors.ErrCanceled, ctxErr)
	}
	if !transient(err) {
		return nil, err
	}
	return nil, &errors.FetchError{Query: q.String(), Attempts: attempts, Err: err}
}

// Papers fetches a page and converts its entries, oldest update first.
// An entry that is not a valid paper fails the whole page.
func (f *Fetcher) Papers(ctx context.Context, q Query, start int) ([]*papers.Paper, error) {
	page, err := f.Page(ctx, q, start)
	if err != nil {
		return nil, err
	}
	return Convert(page.Entries)
}

// Convert turns entries into papers sorted by update time. It stops at the
// first entry that fails validation.
func Convert(entries []Entry) ([]*papers.Paper, error) {
	out := make([]*papers.Paper, 0, len(entries))
	for _, e := range entries {
		p, err := ToPaper(e)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b *papers.Paper) int {
		return a.Updated.Compare(b.Updated)
	})
	return out, nil
}

func (f *Fetcher) check(p *Page, start int) error {
	expected := f.pageSize
	if p.Total > 0 {
		remaining := p.Total - start
		if remaining <= 0 {
			return nil
		}
		expected = min(expected, remaining)
	}
	if len(p.Entries) == 0 {
		return ErrEmptyPage
	}
	if len(p.Entries) < expected {
		return fmt.Errorf("%w: got %d of %d entries", ErrShortPage, len(p.Entries), expected)
	}
	return nil
}

func (f *Fetcher) retryOptions(ctx context.Context, onRetry retry.OnRetryFunc) []retry.Option {
	delayType := retry.FixedDelay
	if f.jitter > 0 {
		delayType = retry.CombineDelay(retry.FixedDelay, retry.RandomDelay)
	}
	return []retry.Option{
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.MaxJitter(f.jitter),
		retry.DelayType(delayType),
		retry.LastErrorOnly(true),
		retry.RetryIf(transient),
		retry.OnRetry(onRetry),
		retry.Context(ctx),
	}
}

// transient reports whether err is worth another attempt.
func transient(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyPage), errors.Is(err, ErrShortPage):
		return true
	case errors.IsRateLimited(err), errors.IsSourceUnavailable(err):
		return true
	}

	var apiErr *errors.APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var parseErr *errors.ParseError
	// Truncated responses surface as parse errors.
	return errors.As(err, &parseErr)
}
