package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/pkg/errors"
)

func TestCountsString(t *testing.T) {
	c := Counts{New: 1200, Updated: 3, Unchanged: 40}
	assert.Equal(t, "1,200 new, 3 updated, 40 unchanged", c.String())

	c.Rejected = 2
	assert.Equal(t, "1,200 new, 3 updated, 40 unchanged, 2 rejected", c.String())
	assert.Equal(t, 1245, c.Total())
	assert.True(t, c.HasChanges())
	assert.False(t, Counts{Unchanged: 5}.HasChanges())
}

func TestResultAdd(t *testing.T) {
	munos := author(t, "Rémi Munos")
	valko := author(t, "Michal Valko")

	r := &Result{}
	r.Add(&AuthorResult{Author: munos, Fetched: 5, Batch: &Batch{Counts: Counts{New: 2, Unchanged: 3}}})
	r.Add(&AuthorResult{Author: valko, Err: errors.ErrFetchExhausted})

	assert.Equal(t, Counts{New: 2, Unchanged: 3}, r.Counts)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, "2 new, 0 updated, 3 unchanged, 1 authors failed.", r.Summary())

	err := r.Err()
	require.Error(t, err)
	assert.True(t, errors.IsFetchExhausted(err))
	var serr *errors.SyncError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Michal Valko", serr.Author)
}

func TestResultDryRunSummary(t *testing.T) {
	r := &Result{DryRun: true}
	assert.Equal(t, "0 new, 0 updated, 0 unchanged. (Dry run)", r.Summary())
	assert.NoError(t, r.Err())
}

func TestAuthorResultSummary(t *testing.T) {
	munos := author(t, "Rémi Munos")
	ar := &AuthorResult{Author: munos, Fetched: 4, Batch: &Batch{Counts: Counts{New: 4}}}
	assert.Equal(t, "Rémi Munos: 4 papers, 4 new, 0 updated, 0 unchanged", ar.Summary())
}

func TestBatchMerge(t *testing.T) {
	a := &Batch{Counts: Counts{New: 1}, NewPapers: nil}
	a.Merge(&Batch{Counts: Counts{Updated: 2, Rejected: 1}})
	a.Merge(nil)
	assert.Equal(t, Counts{New: 1, Updated: 2, Rejected: 1}, a.Counts)
}

func TestOptions(t *testing.T) {
	o := Defaults().Apply(WithDryRun(true), WithFailFast(true), WithTimeout(time.Minute), WithAuthors("Rémi Munos"))
	assert.True(t, o.DryRun)
	assert.True(t, o.FailFast)
	assert.Equal(t, time.Minute, o.Timeout)
	assert.Equal(t, []string{"Rémi Munos"}, o.Authors)
	assert.NoError(t, o.Validate())

	assert.True(t, errors.IsValidationError(Defaults().Apply(WithTimeout(-time.Second)).Validate()))
}

func TestCrawlOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultCrawlOptions().Validate())
	assert.Error(t, CrawlOptions{Start: -1}.Validate())
	assert.Error(t, CrawlOptions{Start: 200, Stop: 100}.Validate())
}
