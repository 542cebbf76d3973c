package sync

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Counts tallies reconciliation outcomes.
type Counts struct {
	New       int `json:"new" yaml:"new"`
	Updated   int `json:"updated" yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Rejected  int `json:"rejected" yaml:"rejected"`
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.New += other.New
	c.Updated += other.Updated
	c.Unchanged += other.Unchanged
	c.Rejected += other.Rejected
}

// Total returns the number of papers seen.
func (c Counts) Total() int {
	return c.New + c.Updated + c.Unchanged + c.Rejected
}

// HasChanges reports whether anything was written.
func (c Counts) HasChanges() bool {
	return c.New > 0 || c.Updated > 0
}

// String renders the counts, e.g. "3 new, 1 updated, 40 unchanged".
func (c Counts) String() string {
	s := fmt.Sprintf("%s new, %s updated, %s unchanged",
		humanize.Comma(int64(c.New)),
		humanize.Comma(int64(c.Updated)),
		humanize.Comma(int64(c.Unchanged)))
	if c.Rejected > 0 {
		s += fmt.Sprintf(", %s rejected", humanize.Comma(int64(c.Rejected)))
	}
	return s
}

// PaperUpdate pairs a stored paper with the newer version that replaced it.
type PaperUpdate struct {
	Old *papers.Paper
	New *papers.Paper
}

// Rejection is a fetched paper that was not applied.
type Rejection struct {
	Paper *papers.Paper
	Err   error
}

// Batch is the outcome of one Reconcile call.
type Batch struct {
	Counts
	NewPapers      []*papers.Paper
	UpdatedPapers  []PaperUpdate
	RejectedPapers []Rejection

	last Outcome
}

func (b *Batch) addNew(p *papers.Paper) {
	b.Counts.New++
	b.NewPapers = append(b.NewPapers, p)
	b.last = OutcomeNew
}

func (b *Batch) addUpdated(old, p *papers.Paper) {
	b.Counts.Updated++
	b.UpdatedPapers = append(b.UpdatedPapers, PaperUpdate{Old: old, New: p})
	b.last = OutcomeUpdated
}

func (b *Batch) addUnchanged(*papers.Paper) {
	b.Counts.Unchanged++
	b.last = OutcomeUnchanged
}

func (b *Batch) addRejected(p *papers.Paper, err error) {
	b.Counts.Rejected++
	b.RejectedPapers = append(b.RejectedPapers, Rejection{Paper: p, Err: err})
	b.last = OutcomeRejected
}

// Merge appends other to b.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	b.Counts.Add(other.Counts)
	b.NewPapers = append(b.NewPapers, other.NewPapers...)
	b.UpdatedPapers = append(b.UpdatedPapers, other.UpdatedPapers...)
	b.RejectedPapers = append(b.RejectedPapers, other.RejectedPapers...)
}

// AuthorResult is the outcome of synchronizing one followed author.
type AuthorResult struct {
	Author  papers.Author
	Fetched int
	Batch   *Batch
	Err     error
}

// Summary returns a one-line description of the author result.
func (ar *AuthorResult) Summary() string {
	if ar.Err != nil {
		return fmt.Sprintf("%s: failed: %v", ar.Author, ar.Err)
	}
	if ar.Batch == nil {
		return fmt.Sprintf("%s: %d papers", ar.Author, ar.Fetched)
	}
	return fmt.Sprintf("%s: %d papers, %s", ar.Author, ar.Fetched, ar.Batch.Counts)
}

// Result is the outcome of a full update run.
type Result struct {
	Counts
	Authors []*AuthorResult
	Failed  int
	DryRun  bool
}

// Add records an author result and folds its counts into the totals.
func (r *Result) Add(ar *AuthorResult) {
	r.Authors = append(r.Authors, ar)
	if ar.Err != nil {
		r.Failed++
		return
	}
	if ar.Batch != nil {
		r.Counts.Add(ar.Batch.Counts)
	}
}

// Err joins the per-author errors, or returns nil when every author synced.
func (r *Result) Err() error {
	var errs []error
	for _, ar := range r.Authors {
		if ar.Err != nil {
			errs = append(errs, errors.NewSyncError(ar.Author.String(), ar.Err))
		}
	}
	return errors.Join(errs...)
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var parts []string
	parts = append(parts, r.Counts.String())
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d authors failed", r.Failed))
	}
	summary := strings.Join(parts, ", ") + "."
	if r.DryRun {
		summary += " (Dry run)"
	}
	return summary
}
