package papertrail

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/internal/sources/arxiv"
	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// fakeSource answers author queries from a map and category crawls from a
// list of pages.
type fakeSource struct {
	mu       sync.Mutex
	byAuthor map[string][]*papers.Paper
	errs     map[string]error
	pages    [][]*papers.Paper
	pageSize int
	queries  []arxiv.Query
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		byAuthor: map[string][]*papers.Paper{},
		errs:     map[string]error{},
		pageSize: 2,
	}
}

func (f *fakeSource) set(author string, ps ...*papers.Paper) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byAuthor[author] = ps
}

func (f *fakeSource) fail(author string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[author] = err
}

func (f *fakeSource) Papers(_ context.Context, q arxiv.Query, start int) ([]*papers.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)

	if q.Author == "" {
		i := start / f.pageSize
		if i >= len(f.pages) {
			return nil, nil
		}
		return clones(f.pages[i]), nil
	}
	if err := f.errs[q.Author]; err != nil {
		return nil, err
	}
	return clones(f.byAuthor[q.Author]), nil
}

func (f *fakeSource) PageSize() int { return f.pageSize }

// clones hands out copies so that the engine's edits never leak into the
// fixtures.
func clones(ps []*papers.Paper) []*papers.Paper {
	out := make([]*papers.Paper, len(ps))
	for i, p := range ps {
		c := *p
		out[i] = &c
	}
	return out
}

func newTestPapertrail(t *testing.T, src Source, opts ...Option) *papertrail {
	t.Helper()
	opts = append([]Option{WithDatabasePath(store.Memory), WithSource(src)}, opts...)
	pt, err := New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pt.Close() })
	return pt.(*papertrail)
}

func author(t *testing.T, raw string) papers.Author {
	t.Helper()
	a, err := papers.ParseAuthor(raw)
	require.NoError(t, err)
	return a
}

// paper builds a paper updated age ago, so it falls inside the default
// show window.
func paper(t *testing.T, id string, version int, age time.Duration, authors ...papers.Author) *papers.Paper {
	t.Helper()
	updated := time.Now().UTC().Add(-age)
	p, err := papers.NewPaper(id, updated.Add(-24*time.Hour), updated, papers.Meta{
		Title:      "Paper " + id,
		Abstract:   "Abstract of " + id,
		Authors:    authors,
		Version:    version,
		Categories: []string{"cs.LG"},
	})
	require.NoError(t, err)
	return p
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty database path", WithDatabasePath("")},
		{"no categories", WithCategories()},
		{"zero page size", WithPageSize(0)},
		{"zero attempts", WithRetry(0, time.Second, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.opt)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestFollowSavesAuthorAndPapers(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	doe := author(t, "Jane Doe")
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, munos, doe))

	pt := newTestPapertrail(t, src)

	var added []string
	pt.OnPaperAdded(func(p *papers.Paper) { added = append(added, p.ID) })

	a, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)
	assert.Equal(t, munos.ID(), a.ID())
	assert.True(t, a.Followed())
	assert.Equal(t, []string{"2101.00001"}, added)

	followees, err := pt.Followees(ctx)
	require.NoError(t, err)
	require.Len(t, followees, 1)
	assert.Equal(t, "Rémi Munos", followees[0].String())

	stats, err := pt.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Papers)
	assert.Equal(t, 2, stats.Authors)
	assert.Equal(t, 1, stats.Followees)
	require.NotNil(t, stats.LastUpdated)
	assert.Equal(t, "2101.00001", stats.LastUpdated.ID)

	_, err = pt.Follow(ctx, "Remi Munos")
	assert.ErrorIs(t, err, errors.ErrAlreadyFollowed)
}

func TestFollowKnownCoauthor(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	doe := author(t, "Jane Doe")
	p := paper(t, "2101.00001", 1, time.Hour, munos, doe)
	src.set("Remi Munos", p)
	src.set("Jane Doe", p)

	pt := newTestPapertrail(t, src)
	_, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)

	a, err := pt.Follow(ctx, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, doe.ID(), a.ID())

	followees, err := pt.Followees(ctx)
	require.NoError(t, err)
	assert.Len(t, followees, 2)
}

func TestFollowNotFound(t *testing.T) {
	src := newFakeSource()
	src.fail("Nobody Atall", &errors.FetchError{Query: "au:nobody", Attempts: 5, Err: arxiv.ErrEmptyPage})
	pt := newTestPapertrail(t, src)

	_, err := pt.Follow(context.Background(), "Nobody Atall")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "try variations of the name")
}

func TestFollowNoMatchingAuthor(t *testing.T) {
	src := newFakeSource()
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, author(t, "Jane Doe")))
	pt := newTestPapertrail(t, src)

	_, err := pt.Follow(context.Background(), "Remi Munos")
	assert.True(t, errors.IsNotFound(err))
}

func TestFollowAmbiguous(t *testing.T) {
	src := newFakeSource()
	src.set("Munos",
		paper(t, "2101.00001", 1, time.Hour, author(t, "Rémi Munos")),
		paper(t, "2101.00002", 1, time.Hour, author(t, "R. Munos")),
	)
	pt := newTestPapertrail(t, src)

	_, err := pt.Follow(context.Background(), "Munos")
	var amb *errors.AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Len(t, amb.Candidates, 2)

	followees, err := pt.Followees(context.Background())
	require.NoError(t, err)
	assert.Empty(t, followees)
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, author(t, "Rémi Munos")))
	pt := newTestPapertrail(t, src)

	_, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)

	a, err := pt.Unfollow(ctx, "Rémi Munos")
	require.NoError(t, err)
	assert.False(t, a.Followed())

	followees, err := pt.Followees(ctx)
	require.NoError(t, err)
	assert.Empty(t, followees)

	_, err = pt.Unfollow(ctx, "Rémi Munos")
	assert.ErrorIs(t, err, errors.ErrNotFollowed)

	// The author and their papers stay in the store.
	local, err := pt.SearchLocal(ctx, "Munos")
	require.NoError(t, err)
	assert.Len(t, local, 1)
}

func TestSearchRemote(t *testing.T) {
	src := newFakeSource()
	src.set("Munos",
		paper(t, "2101.00001", 1, time.Hour, author(t, "Rémi Munos")),
		paper(t, "2101.00002", 1, 2*time.Hour, author(t, "R. Munos")),
		paper(t, "2101.00003", 1, 3*time.Hour, author(t, "Rémi Munos")),
	)
	pt := newTestPapertrail(t, src)

	candidates, err := pt.SearchRemote(context.Background(), "Munos", 0)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	candidates, err = pt.SearchRemote(context.Background(), "Munos", 1)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)

	require.NotEmpty(t, src.queries)
	assert.Equal(t, []string{"cs.CV", "cs.LG", "cs.CL", "cs.AI", "cs.NE", "cs.RO"}, src.queries[0].Categories)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	src.set("Remi Munos",
		paper(t, "2101.00001", 1, 3*time.Hour, munos),
		paper(t, "2101.00002", 1, 2*time.Hour, munos),
	)
	pt := newTestPapertrail(t, src)
	_, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)

	var updated, added []string
	pt.OnPaperUpdated(func(old, new *papers.Paper) {
		assert.Equal(t, 1, old.Version())
		updated = append(updated, new.ID)
	})
	pt.OnPaperAdded(func(p *papers.Paper) { added = append(added, p.ID) })

	src.set("Rémi Munos",
		paper(t, "2101.00001", 1, 3*time.Hour, munos),
		paper(t, "2101.00002", 2, time.Hour, munos),
		paper(t, "2101.00003", 1, time.Minute, munos),
	)

	result, err := pt.Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, psync.Counts{New: 1, Updated: 1, Unchanged: 1}, result.Counts)
	require.Len(t, result.Authors, 1)
	assert.Equal(t, 3, result.Authors[0].Fetched)
	assert.Equal(t, []string{"2101.00002"}, updated)
	assert.Equal(t, []string{"2101.00003"}, added)
	assert.Equal(t, "1 new, 1 updated, 1 unchanged.", result.Summary())
}

func TestUpdateDryRun(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, munos))
	pt := newTestPapertrail(t, src)
	_, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)

	fired := false
	pt.OnPaperAdded(func(*papers.Paper) { fired = true })

	src.set("Rémi Munos", paper(t, "2101.00002", 1, time.Hour, munos))
	result, err := pt.Update(ctx, psync.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.New)
	assert.False(t, fired)

	stats, err := pt.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Papers)
}

func TestUpdateSkipsFailedAuthor(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	doe := author(t, "Jane Doe")
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, munos))
	src.set("Jane Doe", paper(t, "2101.00002", 1, time.Hour, doe))
	pt := newTestPapertrail(t, src)
	for _, name := range []string{"Remi Munos", "Jane Doe"} {
		_, err := pt.Follow(ctx, name)
		require.NoError(t, err)
	}

	src.fail("Jane Doe", &errors.FetchError{Query: "au:doe", Attempts: 5, Err: arxiv.ErrShortPage})
	src.set("Rémi Munos", paper(t, "2101.00003", 1, time.Minute, munos))

	result, err := pt.Update(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsFetchExhausted(err))
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.New)

	var syncErr *errors.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "Jane Doe", syncErr.Author)
}

func TestUpdateFailFast(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.set("Jane Doe", paper(t, "2101.00001", 1, time.Hour, author(t, "Jane Doe")))
	src.set("Remi Munos", paper(t, "2101.00002", 1, time.Hour, author(t, "Rémi Munos")))
	pt := newTestPapertrail(t, src)
	for _, name := range []string{"Jane Doe", "Remi Munos"} {
		_, err := pt.Follow(ctx, name)
		require.NoError(t, err)
	}

	// Followees are ordered by family name, so Doe comes first.
	src.fail("Jane Doe", errors.ErrSourceUnavailable)
	result, err := pt.Update(ctx, psync.WithFailFast(true))
	require.Error(t, err)
	assert.Len(t, result.Authors, 1)
}

func TestUpdateNamedAuthors(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, munos, author(t, "Jane Doe")))
	pt := newTestPapertrail(t, src)
	_, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)

	_, err = pt.Update(ctx, psync.WithAuthors("Jane Doe"))
	assert.ErrorIs(t, err, errors.ErrNotFollowed)

	src.set("Rémi Munos")
	result, err := pt.Update(ctx, psync.WithAuthors("Munos"))
	require.NoError(t, err)
	require.Len(t, result.Authors, 1)
	assert.Equal(t, munos.ID(), result.Authors[0].Author.ID())
}

func TestUpdateCanceled(t *testing.T) {
	src := newFakeSource()
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, author(t, "Rémi Munos")))
	pt := newTestPapertrail(t, src)
	_, err := pt.Follow(context.Background(), "Remi Munos")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pt.Update(ctx)
	assert.ErrorIs(t, err, errors.ErrCanceled)
}

func TestUpdateKeepsHiddenPapersHidden(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	src.set("Remi Munos", paper(t, "2101.00001", 1, time.Hour, munos))
	pt := newTestPapertrail(t, src)
	_, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)
	require.NoError(t, pt.SetVisible(ctx, "2101.00001", false))

	src.set("Rémi Munos", paper(t, "2101.00001", 2, time.Minute, munos))
	result, err := pt.Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	listings, err := pt.Show(ctx, Filter{IncludeHidden: true})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Len(t, listings[0].Papers, 1)
	assert.False(t, listings[0].Papers[0].Visible)
	assert.Equal(t, 2, listings[0].Papers[0].Version())
}

func TestUpdateRejectsVersionRegression(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	src.set("Remi Munos", paper(t, "2101.00001", 3, time.Hour, munos))
	pt := newTestPapertrail(t, src)
	_, err := pt.Follow(ctx, "Remi Munos")
	require.NoError(t, err)

	var rejected []error
	pt.OnPaperRejected(func(_ *papers.Paper, err error) { rejected = append(rejected, err) })

	src.set("Rémi Munos", paper(t, "2101.00001", 2, time.Minute, munos))
	result, err := pt.Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rejected)
	require.Len(t, rejected, 1)
	assert.True(t, errors.IsVersionRegression(rejected[0]))
}

func TestCrawl(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	a := author(t, "Jane Doe")
	src.pages = [][]*papers.Paper{
		{paper(t, "2101.00001", 1, time.Hour, a), paper(t, "2101.00002", 1, time.Hour, a)},
		{paper(t, "2101.00003", 1, time.Hour, a), paper(t, "2101.00004", 1, time.Hour, a)},
		{paper(t, "2101.00005", 1, time.Hour, a)},
	}
	pt := newTestPapertrail(t, src)

	result, err := pt.Crawl(ctx, psync.DefaultCrawlOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, result.New)

	// A second crawl stops once enough known papers have been seen.
	src.queries = nil
	opts := psync.DefaultCrawlOptions()
	opts.StopAfterUnchanged = 2
	result, err = pt.Crawl(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Unchanged)
	assert.Len(t, src.queries, 1)
	assert.Empty(t, src.queries[0].Author)
}

func TestCrawlStopsAtBound(t *testing.T) {
	src := newFakeSource()
	a := author(t, "Jane Doe")
	src.pages = [][]*papers.Paper{
		{paper(t, "2101.00001", 1, time.Hour, a), paper(t, "2101.00002", 1, time.Hour, a)},
		{paper(t, "2101.00003", 1, time.Hour, a), paper(t, "2101.00004", 1, time.Hour, a)},
	}
	pt := newTestPapertrail(t, src)

	result, err := pt.Crawl(context.Background(), psync.CrawlOptions{Start: 0, Stop: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, result.New)

	_, err = pt.Crawl(context.Background(), psync.CrawlOptions{Start: 5, Stop: 1})
	assert.True(t, errors.IsValidationError(err))
}
