package papertrail

import (
	"context"
	"fmt"

	"github.com/agentstation/papertrail/internal/sources/arxiv"
	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// Follow looks name up on arXiv and follows the single author it denotes.
// The papers found along the way are reconciled in the same transaction, so
// the author shows up with their papers right away.
func (p *papertrail) Follow(ctx context.Context, name string) (papers.Author, error) {
	ctx = logging.WithOperation(ctx, "follow")

	candidate, err := p.findRemote(ctx, name)
	if err != nil {
		return papers.Author{}, err
	}
	a := candidate.Author

	var batch *psync.Batch
	err = p.store.Do(ctx, func(tx *store.Tx) error {
		stored, err := tx.Authors().Get(ctx, a.ID())
		switch {
		case err == nil && stored.Followed():
			return fmt.Errorf("%s: %w", stored, errors.ErrAlreadyFollowed)
		case err != nil && !errors.IsNotFound(err):
			return err
		}

		batch, err = psync.NewEngine(tx.Authors(), tx.Papers()).Reconcile(ctx, candidate.Papers)
		if err != nil {
			return err
		}

		known, err := tx.Authors().Exists(ctx, a)
		if err != nil {
			return err
		}
		if known {
			return tx.Authors().Update(ctx, a.WithFollowed(true))
		}
		return tx.Authors().Save(ctx, a.WithFollowed(true))
	})
	if err != nil {
		return papers.Author{}, err
	}
	p.hooks.trigger(batch)

	logging.Ctx(ctx).Info().
		Str("author", a.String()).
		Str("id", a.ID().String()).
		Msg("Following author")
	return a.WithFollowed(true), nil
}

// findRemote resolves name to exactly one author credited on arXiv.
func (p *papertrail) findRemote(ctx context.Context, name string) (arxiv.Candidate, error) {
	candidates, err := p.searchRemote(ctx, name)
	if err != nil {
		return arxiv.Candidate{}, err
	}
	return arxiv.Resolve(name, candidates)
}

func (p *papertrail) searchRemote(ctx context.Context, name string) ([]arxiv.Candidate, error) {
	fetched, err := p.source.Papers(ctx, p.query(name), 0)
	if errors.Is(err, arxiv.ErrEmptyPage) {
		return nil, fmt.Errorf("%w on arXiv, try variations of the name", errors.NewNotFoundError("author", name))
	}
	if err != nil {
		return nil, err
	}
	return arxiv.MatchAuthors(name, fetched), nil
}

// SearchRemote returns up to max authors on arXiv whose name fits name,
// each with the papers that credit them, most recent first.
func (p *papertrail) SearchRemote(ctx context.Context, name string, max int) ([]arxiv.Candidate, error) {
	candidates, err := p.searchRemote(logging.WithOperation(ctx, "search"), name)
	if err != nil {
		return nil, err
	}
	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates, nil
}

// Unfollow stops following the single followed author matching name.
func (p *papertrail) Unfollow(ctx context.Context, name string) (papers.Author, error) {
	var a papers.Author
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		var err error
		a, err = followedByName(ctx, tx, name)
		if err != nil {
			return err
		}
		a = a.WithFollowed(false)
		return tx.Authors().Update(ctx, a)
	})
	if err != nil {
		return papers.Author{}, err
	}

	logging.Ctx(ctx).Info().Str("author", a.String()).Msg("Unfollowed author")
	return a, nil
}

// Followees returns the followed authors ordered by name.
func (p *papertrail) Followees(ctx context.Context) ([]papers.Author, error) {
	var out []papers.Author
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		var err error
		out, err = tx.Authors().Followees(ctx)
		return err
	})
	return out, err
}

// SearchLocal returns the stored authors matching name, followed or not.
func (p *papertrail) SearchLocal(ctx context.Context, name string) ([]papers.Author, error) {
	var out []papers.Author
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		var err error
		out, err = tx.Authors().Search(ctx, name)
		return err
	})
	return out, err
}

// followedByName returns the one followed author matching name.
func followedByName(ctx context.Context, tx *store.Tx, name string) (papers.Author, error) {
	found, err := tx.Authors().Search(ctx, name)
	if err != nil {
		return papers.Author{}, err
	}

	var followed []papers.Author
	for _, a := range found {
		if a.Followed() {
			followed = append(followed, a)
		}
	}

	switch len(followed) {
	case 0:
		return papers.Author{}, fmt.Errorf("%s: %w", name, errors.ErrNotFollowed)
	case 1:
		return followed[0], nil
	}

	display := make([]string, len(followed))
	for i, a := range followed {
		display[i] = a.String()
	}
	return papers.Author{}, &errors.AmbiguousError{Query: name, Candidates: display}
}
