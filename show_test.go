package papertrail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

// showFixture follows Munos and Doe, who share one paper, and returns the
// papertrail.
func showFixture(t *testing.T) *papertrail {
	t.Helper()
	ctx := context.Background()
	src := newFakeSource()
	munos := author(t, "Rémi Munos")
	doe := author(t, "Jane Doe")
	shared := paper(t, "2101.00003", 1, time.Hour, munos, doe)

	src.set("Remi Munos",
		paper(t, "2101.00001", 1, 3*time.Hour, munos),
		paper(t, "1901.00001", 1, 2*365*24*time.Hour, munos),
		shared,
	)
	src.set("Jane Doe",
		paper(t, "2101.00002", 1, 2*time.Hour, doe),
		shared,
	)

	pt := newTestPapertrail(t, src)
	for _, name := range []string{"Remi Munos", "Jane Doe"} {
		_, err := pt.Follow(ctx, name)
		require.NoError(t, err)
	}
	return pt
}

func ids(ps []*papers.Paper) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestShow(t *testing.T) {
	ctx := context.Background()
	pt := showFixture(t)

	t.Run("followees within the last year", func(t *testing.T) {
		listings, err := pt.Show(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.Equal(t, "Jane Doe", listings[0].Author.String())
		assert.Equal(t, []string{"2101.00003", "2101.00002"}, ids(listings[0].Papers))
		assert.Equal(t, []string{"2101.00003", "2101.00001"}, ids(listings[1].Papers))
	})

	t.Run("explicit since reaches older papers", func(t *testing.T) {
		listings, err := pt.Show(ctx, Filter{
			Authors: []string{"Munos"},
			Since:   time.Now().Add(-3 * 365 * 24 * time.Hour),
		})
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Len(t, listings[0].Papers, 3)
	})

	t.Run("limit per author", func(t *testing.T) {
		listings, err := pt.Show(ctx, Filter{Limit: 1})
		require.NoError(t, err)
		for _, l := range listings {
			assert.Len(t, l.Papers, 1)
		}
	})

	t.Run("feed merges shared papers", func(t *testing.T) {
		listings, err := pt.Show(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"2101.00003", "2101.00002", "2101.00001"}, ids(Feed(listings, 0)))
		assert.Equal(t, []string{"2101.00003", "2101.00002"}, ids(Feed(listings, 2)))
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := pt.Show(ctx, Filter{Authors: []string{"Nobody"}})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("window ending before it starts", func(t *testing.T) {
		_, err := pt.Show(ctx, Filter{Since: time.Now(), Until: time.Now().Add(-time.Hour)})
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestSetVisible(t *testing.T) {
	ctx := context.Background()
	pt := showFixture(t)

	require.NoError(t, pt.SetVisible(ctx, "2101.00003", false))

	listings, err := pt.Show(ctx, Filter{Authors: []string{"Doe"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2101.00002"}, ids(listings[0].Papers))

	listings, err = pt.Show(ctx, Filter{Authors: []string{"Doe"}, IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"2101.00003", "2101.00002"}, ids(listings[0].Papers))

	require.NoError(t, pt.SetVisible(ctx, "2101.00003", true))
	listings, err = pt.Show(ctx, Filter{Authors: []string{"Doe"}})
	require.NoError(t, err)
	assert.Len(t, listings[0].Papers, 2)

	err = pt.SetVisible(ctx, "9999.99999", false)
	assert.True(t, errors.IsNotFound(err))
}

func TestCoauthors(t *testing.T) {
	ctx := context.Background()
	pt := showFixture(t)

	authors, err := pt.Coauthors(ctx, "2101.00003")
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Jane Doe", authors[0].String())
	assert.Equal(t, "Rémi Munos", authors[1].String())

	_, err = pt.Coauthors(ctx, "9999.99999")
	assert.True(t, errors.IsNotFound(err))
}

func TestSearchPapers(t *testing.T) {
	ctx := context.Background()
	pt := showFixture(t)

	found, err := pt.SearchPapers(ctx, "paper 2101.00002", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2101.00002"}, ids(found))

	found, err = pt.SearchPapers(ctx, "abstract", 2)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = pt.SearchPapers(ctx, "  ", 0)
	assert.True(t, errors.IsValidationError(err))
}

func TestInfoEmptyStore(t *testing.T) {
	pt := newTestPapertrail(t, newFakeSource())

	stats, err := pt.Info(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Papers)
	assert.Nil(t, stats.LastUpdated)
	assert.Nil(t, stats.LastCreated)
}
