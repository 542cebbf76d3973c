package store

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

var paperColumns = []string{"paper.id", "paper.updated", "paper.created", "paper.meta", "paper.visible"}

// PaperStore reads and writes paper rows.
type PaperStore struct {
	q querier
}

// Exists reports whether a paper with the given id is stored.
func (s *PaperStore) Exists(ctx context.Context, id string) (bool, error) {
	found, err := exists(ctx, s.q, "paper", id)
	if err != nil {
		return false, errors.WrapResource("query", "paper", id, err)
	}
	return found, nil
}

// Get loads a paper by id.
func (s *PaperStore) Get(ctx context.Context, id string) (*papers.Paper, error) {
	b := sq.Select(paperColumns...).From("paper").Where(sq.Eq{"id": id})
	p, err := scanPaper(func(dest ...any) error { return scanRow(ctx, s.q, b, dest...) })
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("paper", id)
	}
	if err != nil {
		return nil, errors.WrapResource("get", "paper", id, err)
	}
	return p, nil
}

// Save inserts a new paper.
func (s *PaperStore) Save(ctx context.Context, p *papers.Paper) error {
	meta, err := p.MarshalMeta()
	if err != nil {
		return errors.WrapResource("save", "paper", p.ID, err)
	}
	b := sq.Insert("paper").
		Columns("id", "updated", "created", "meta", "visible").
		Values(p.ID, p.UpdatedString(), p.CreatedString(), string(meta), p.Visible)
	if _, err := exec(ctx, s.q, b); err != nil {
		if isConstraint(err) {
			return errors.NewAlreadyExistsError("paper", p.ID)
		}
		return errors.WrapResource("save", "paper", p.ID, err)
	}
	return nil
}

// Update overwrites the timestamps, metadata and visibility of a stored
// paper.
func (s *PaperStore) Update(ctx context.Context, p *papers.Paper) error {
	meta, err := p.MarshalMeta()
	if err != nil {
		return errors.WrapResource("update", "paper", p.ID, err)
	}
	b := sq.Update("paper").
		SetMap(map[string]any{
			"created": p.CreatedString(),
			"updated": p.UpdatedString(),
			"meta":    string(meta),
			"visible": p.Visible,
		}).
		Where(sq.Eq{"id": p.ID})
	res, err := exec(ctx, s.q, b)
	if err != nil {
		return errors.WrapResource("update", "paper", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("paper", p.ID)
	}
	return nil
}

// Count returns the number of stored papers.
func (s *PaperStore) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, s.q, sq.Select("COUNT(*)").From("paper"))
	if err != nil {
		return 0, errors.WrapResource("count", "paper", "", err)
	}
	return n, nil
}

// Column names accepted by Last.
const (
	ByCreated = "created"
	ByUpdated = "updated"
)

// Last returns the paper with the greatest value in column, which must be
// ByCreated or ByUpdated.
func (s *PaperStore) Last(ctx context.Context, column string) (*papers.Paper, error) {
	if column != ByCreated && column != ByUpdated {
		return nil, errors.NewValidationError("column", column, "must be created or updated")
	}
	b := sq.Select(paperColumns...).From("paper").OrderBy(column + " DESC").Limit(1)
	p, err := scanPaper(func(dest ...any) error { return scanRow(ctx, s.q, b, dest...) })
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("paper", "last by "+column)
	}
	if err != nil {
		return nil, errors.WrapResource("get", "paper", "last by "+column, err)
	}
	return p, nil
}

// Search returns papers whose title or abstract contains every whitespace
// separated term, most recently updated first. Matching ignores ASCII case.
func (s *PaperStore) Search(ctx context.Context, text string, limit uint64) ([]*papers.Paper, error) {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return nil, errors.NewValidationError("query", text, "query is empty")
	}

	where := sq.And{}
	for _, term := range terms {
		pattern := "%" + term + "%"
		where = append(where, sq.Or{
			sq.Like{"json_extract(paper.meta, '$.title')": pattern},
			sq.Like{"json_extract(paper.meta, '$.abstract')": pattern},
		})
	}

	b := sq.Select(paperColumns...).From("paper").Where(where).OrderBy("paper.updated DESC")
	if limit > 0 {
		b = b.Limit(limit)
	}
	out, err := listPapers(ctx, s.q, b)
	if err != nil {
		return nil, errors.WrapResource("search", "paper", text, err)
	}
	return out, nil
}

// Coauthors returns every author credited on the paper.
func (s *PaperStore) Coauthors(ctx context.Context, paperID string) ([]papers.Author, error) {
	b := sq.Select(authorColumns...).
		From("authorship").
		Join("author ON author.id = authorship.author_id").
		Where(sq.Eq{"authorship.paper_id": paperID}).
		GroupBy("author.id").
		OrderBy("author.family", "author.given")
	out, err := listAuthors(ctx, s.q, b)
	if err != nil {
		return nil, errors.WrapResource("query", "coauthors", paperID, err)
	}
	return out, nil
}

// Each calls fn for every stored paper in id order, stopping at the first
// error.
func (s *PaperStore) Each(ctx context.Context, fn func(*papers.Paper) error) error {
	rows, err := query(ctx, s.q, sq.Select(paperColumns...).From("paper").OrderBy("paper.id"))
	if err != nil {
		return errors.WrapResource("query", "paper", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPaper(rows.Scan)
		if err != nil {
			return errors.WrapResource("scan", "paper", "", err)
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return rows.Err()
}

func listPapers(ctx context.Context, q querier, b sq.Sqlizer) ([]*papers.Paper, error) {
	rows, err := query(ctx, q, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*papers.Paper
	for rows.Next() {
		p, err := scanPaper(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPaper(scan func(dest ...any) error) (*papers.Paper, error) {
	var (
		id, updated, created, rawMeta string
		visible                       bool
	)
	if err := scan(&id, &updated, &created, &rawMeta, &visible); err != nil {
		return nil, err
	}
	meta, err := papers.UnmarshalMeta([]byte(rawMeta))
	if err != nil {
		return nil, err
	}
	p, err := papers.ParsePaper(id, created, updated, meta)
	if err != nil {
		return nil, err
	}
	p.Visible = visible
	return p, nil
}
