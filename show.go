package papertrail

import (
	"context"
	"slices"
	"time"

	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Filter selects what Show lists.
type Filter struct {
	// Authors names the authors to list. Empty means every followee.
	Authors []string
	// Since is the earliest update time to include. Zero means one year ago.
	Since time.Time
	// Until is the latest update time to include. Zero means now.
	Until time.Time
	// Limit caps the papers listed per author. Zero means no limit.
	Limit int
	// IncludeHidden also lists papers hidden during triage.
	IncludeHidden bool
}

// Listing is an author with their papers, most recently updated first.
type Listing struct {
	Author papers.Author
	Papers []*papers.Paper
}

// Show lists the selected authors with their papers inside the filter
// window. Named authors are looked up locally whether followed or not.
func (p *papertrail) Show(ctx context.Context, filter Filter) ([]Listing, error) {
	since := filter.Since
	if since.IsZero() {
		since = time.Now().UTC().Add(-constants.DefaultShowWindow)
	}
	if !filter.Until.IsZero() && filter.Until.Before(since) {
		return nil, errors.NewValidationError("until", filter.Until, "end of window is before its start")
	}
	if filter.Limit < 0 {
		return nil, errors.NewValidationError("limit", filter.Limit, "limit must be non-negative")
	}

	w := store.Window{
		Since:       since,
		Until:       filter.Until,
		VisibleOnly: !filter.IncludeHidden,
		Limit:       uint64(filter.Limit),
	}

	var out []Listing
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		authors, err := showTargets(ctx, tx, filter.Authors)
		if err != nil {
			return err
		}
		for _, a := range authors {
			ps, err := tx.Authors().Papers(ctx, a, w)
			if err != nil {
				return err
			}
			out = append(out, Listing{Author: a, Papers: ps})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func showTargets(ctx context.Context, tx *store.Tx, named []string) ([]papers.Author, error) {
	if len(named) == 0 {
		return tx.Authors().Followees(ctx)
	}
	var out []papers.Author
	for _, name := range named {
		found, err := tx.Authors().Search(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, errors.NewNotFoundError("author", name)
		}
		out = append(out, found...)
	}
	return papers.Unique(out), nil
}

// Feed merges the papers of listings into one list without duplicates,
// most recently updated first, capped at limit when positive.
func Feed(listings []Listing, limit int) []*papers.Paper {
	seen := map[string]bool{}
	var out []*papers.Paper
	for _, l := range listings {
		for _, p := range l.Papers {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *papers.Paper) int {
		return b.Updated.Compare(a.Updated)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Coauthors returns every author credited on the stored paper.
func (p *papertrail) Coauthors(ctx context.Context, paperID string) ([]papers.Author, error) {
	var out []papers.Author
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		known, err := tx.Papers().Exists(ctx, paperID)
		if err != nil {
			return err
		}
		if !known {
			return errors.NewNotFoundError("paper", paperID)
		}
		out, err = tx.Papers().Coauthors(ctx, paperID)
		return err
	})
	return out, err
}

// SearchPapers returns stored papers whose title or abstract contains every
// word of text, most recently updated first.
func (p *papertrail) SearchPapers(ctx context.Context, text string, limit int) ([]*papers.Paper, error) {
	if limit < 0 {
		return nil, errors.NewValidationError("limit", limit, "limit must be non-negative")
	}
	var out []*papers.Paper
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		var err error
		out, err = tx.Papers().Search(ctx, text, uint64(limit))
		return err
	})
	return out, err
}

// SetVisible hides or unhides a stored paper. Hidden papers are left out
// of Show unless asked for, and stay hidden across version updates.
func (p *papertrail) SetVisible(ctx context.Context, paperID string, visible bool) error {
	return p.store.Do(ctx, func(tx *store.Tx) error {
		stored, err := tx.Papers().Get(ctx, paperID)
		if err != nil {
			return err
		}
		if stored.Visible == visible {
			return nil
		}
		stored.Visible = visible
		return tx.Papers().Update(ctx, stored)
	})
}
