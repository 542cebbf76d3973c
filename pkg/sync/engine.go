package sync

import (
	"context"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
	"github.com/agentstation/papertrail/pkg/papers"
)

// AuthorStore is the author repository the engine writes through.
type AuthorStore interface {
	Exists(ctx context.Context, a papers.Author) (bool, error)
	Save(ctx context.Context, a papers.Author) error
	AddAuthorship(ctx context.Context, a papers.Author, paperID string) error
}

// PaperStore is the paper repository the engine writes through.
type PaperStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*papers.Paper, error)
	Save(ctx context.Context, p *papers.Paper) error
	Update(ctx context.Context, p *papers.Paper) error
}

// Outcome is what reconciling one fetched paper did to the store.
type Outcome int

// Reconciliation outcomes.
const (
	OutcomeNew Outcome = iota
	OutcomeUpdated
	OutcomeUnchanged
	OutcomeRejected
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Engine merges freshly fetched papers into a store.
//
// The engine never commits. Callers bind it to repositories opened on one
// transaction and decide when that transaction ends.
type Engine struct {
	authors AuthorStore
	papers  PaperStore
}

// NewEngine returns an engine writing through the given repositories.
func NewEngine(authors AuthorStore, papers PaperStore) *Engine {
	return &Engine{authors: authors, papers: papers}
}

// Reconcile applies every fetched paper in order. A repository error aborts
// the batch and is returned together with the partial batch; the caller is
// expected to roll back.
func (e *Engine) Reconcile(ctx context.Context, fetched []*papers.Paper) (*Batch, error) {
	batch := &Batch{}
	for _, p := range fetched {
		if err := ctx.Err(); err != nil {
			return batch, errors.Join(errors.ErrCanceled, err)
		}
		if err := e.apply(ctx, p, batch); err != nil {
			return batch, err
		}
	}
	return batch, nil
}

// Apply reconciles a single paper.
func (e *Engine) Apply(ctx context.Context, p *papers.Paper) (Outcome, error) {
	batch := &Batch{}
	if err := e.apply(ctx, p, batch); err != nil {
		return OutcomeRejected, err
	}
	return batch.last, nil
}

func (e *Engine) apply(ctx context.Context, p *papers.Paper, batch *Batch) error {
	known, err := e.papers.Exists(ctx, p.ID)
	if err != nil {
		return err
	}
	if !known {
		if err := e.insert(ctx, p); err != nil {
			return err
		}
		batch.addNew(p)
		return nil
	}

	stored, err := e.papers.Get(ctx, p.ID)
	if err != nil {
		return err
	}

	switch {
	case stored.Version() == p.Version():
		batch.addUnchanged(p)
	case stored.Version() < p.Version():
		// Triage decisions survive a new version.
		p.Visible = stored.Visible
		if err := e.papers.Update(ctx, p); err != nil {
			return err
		}
		batch.addUpdated(stored, p)
	default:
		rerr := &errors.VersionRegressionError{
			PaperID: p.ID,
			Stored:  stored.Version(),
			Fetched: p.Version(),
		}
		logging.Ctx(ctx).Error().
			Err(rerr).
			Str("paper", p.ID).
			Msg("Rejected paper with version lower than stored")
		batch.addRejected(p, rerr)
	}
	return nil
}

// insert stores a new paper, any co-authors not seen before, and one
// authorship edge per distinct author.
func (e *Engine) insert(ctx context.Context, p *papers.Paper) error {
	if err := e.papers.Save(ctx, p); err != nil {
		return err
	}
	for _, a := range papers.Unique(p.Authors()) {
		found, err := e.authors.Exists(ctx, a)
		if err != nil {
			return err
		}
		if !found {
			if err := e.authors.Save(ctx, a.WithFollowed(false)); err != nil {
				return err
			}
		}
		if err := e.authors.AddAuthorship(ctx, a, p.ID); err != nil {
			return err
		}
	}
	return nil
}
