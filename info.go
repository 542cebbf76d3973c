package papertrail

import (
	"context"

	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Stats describes the contents of the store.
type Stats struct {
	Path      string
	Papers    int
	Authors   int
	Followees int
	// LastUpdated and LastCreated are nil while the store holds no paper.
	LastUpdated *papers.Paper
	LastCreated *papers.Paper
}

// Info counts stored papers, authors and followees, and finds the most
// recently updated and created papers.
func (p *papertrail) Info(ctx context.Context) (*Stats, error) {
	stats := &Stats{Path: p.store.Path()}
	err := p.store.Do(ctx, func(tx *store.Tx) error {
		var err error
		if stats.Papers, err = tx.Papers().Count(ctx); err != nil {
			return err
		}
		if stats.Authors, err = tx.Authors().Count(ctx); err != nil {
			return err
		}
		if stats.Followees, err = tx.Authors().CountFollowees(ctx); err != nil {
			return err
		}
		if stats.LastUpdated, err = last(ctx, tx, store.ByUpdated); err != nil {
			return err
		}
		stats.LastCreated, err = last(ctx, tx, store.ByCreated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func last(ctx context.Context, tx *store.Tx, column string) (*papers.Paper, error) {
	p, err := tx.Papers().Last(ctx, column)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return p, err
}
