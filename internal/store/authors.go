package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/identity"
	"github.com/agentstation/papertrail/pkg/names"
	"github.com/agentstation/papertrail/pkg/papers"
)

var authorColumns = []string{"author.id", "author.family", "author.given", "author.suffix", "author.followed"}

// AuthorStore reads and writes author rows and the authorship relation.
type AuthorStore struct {
	q querier
}

// Exists reports whether an author with a's identity is stored.
func (s *AuthorStore) Exists(ctx context.Context, a papers.Author) (bool, error) {
	found, err := exists(ctx, s.q, "author", a.ID().String())
	if err != nil {
		return false, errors.WrapResource("query", "author", a.ID().String(), err)
	}
	return found, nil
}

// Get loads the author with the given identity.
func (s *AuthorStore) Get(ctx context.Context, id identity.Identity) (papers.Author, error) {
	b := sq.Select(authorColumns...).From("author").Where(sq.Eq{"id": id.String()})
	a, err := scanAuthor(func(dest ...any) error { return scanRow(ctx, s.q, b, dest...) })
	if errors.Is(err, sql.ErrNoRows) {
		return papers.Author{}, errors.NewNotFoundError("author", id.String())
	}
	if err != nil {
		return papers.Author{}, errors.WrapResource("get", "author", id.String(), err)
	}
	return a, nil
}

// Save inserts a new author. Saving an author that already exists is an
// error; callers check Exists first.
func (s *AuthorStore) Save(ctx context.Context, a papers.Author) error {
	b := sq.Insert("author").
		Columns("id", "family", "given", "suffix", "followed").
		Values(a.ID().String(), a.Family(), a.Given(), a.Suffix(), a.Followed())
	if _, err := exec(ctx, s.q, b); err != nil {
		if isConstraint(err) {
			return errors.NewAlreadyExistsError("author", a.ID().String())
		}
		return errors.WrapResource("save", "author", a.ID().String(), err)
	}
	return nil
}

// Update writes the mutable fields of a stored author.
func (s *AuthorStore) Update(ctx context.Context, a papers.Author) error {
	b := sq.Update("author").
		Set("followed", a.Followed()).
		Where(sq.Eq{"id": a.ID().String()})
	res, err := exec(ctx, s.q, b)
	if err != nil {
		return errors.WrapResource("update", "author", a.ID().String(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("author", a.ID().String())
	}
	return nil
}

// Followees returns every followed author ordered by name.
func (s *AuthorStore) Followees(ctx context.Context) ([]papers.Author, error) {
	b := sq.Select(authorColumns...).From("author").
		Where(sq.Eq{"followed": 1}).
		OrderBy("family", "given")
	return s.list(ctx, b)
}

// Search finds stored authors by name. A single token matches family names
// only; otherwise both the family and given names must match exactly.
func (s *AuthorStore) Search(ctx context.Context, name string) ([]papers.Author, error) {
	n := names.Parse(name)
	if n.IsZero() {
		return nil, errors.NewValidationError("name", name, "name is empty")
	}

	where := sq.Eq{"family": n.Family}
	if n.Given != "" {
		where["given"] = n.Given
	}
	b := sq.Select(authorColumns...).From("author").
		Where(where).
		OrderBy("given", "family")
	return s.list(ctx, b)
}

// Count returns the number of stored authors.
func (s *AuthorStore) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, s.q, sq.Select("COUNT(*)").From("author"))
	if err != nil {
		return 0, errors.WrapResource("count", "author", "", err)
	}
	return n, nil
}

// CountFollowees returns the number of followed authors.
func (s *AuthorStore) CountFollowees(ctx context.Context) (int, error) {
	n, err := count(ctx, s.q, sq.Select("COUNT(*)").From("author").Where(sq.Eq{"followed": 1}))
	if err != nil {
		return 0, errors.WrapResource("count", "author", "", err)
	}
	return n, nil
}

// AddAuthorship records that a wrote the paper with the given id.
func (s *AuthorStore) AddAuthorship(ctx context.Context, a papers.Author, paperID string) error {
	b := sq.Insert("authorship").
		Columns("author_id", "paper_id").
		Values(a.ID().String(), paperID)
	if _, err := exec(ctx, s.q, b); err != nil {
		return errors.WrapResource("save", "authorship", a.ID().String()+"/"+paperID, err)
	}
	return nil
}

// Window restricts the papers returned for an author.
type Window struct {
	// Since is the earliest updated timestamp to include.
	Since time.Time
	// Until is the latest updated timestamp to include. Zero means now.
	Until time.Time
	// VisibleOnly skips papers hidden during triage.
	VisibleOnly bool
	// Limit caps the number of papers. Zero means no limit.
	Limit uint64
}

// Papers returns the papers written by a and updated inside w, most
// recently updated first.
func (s *AuthorStore) Papers(ctx context.Context, a papers.Author, w Window) ([]*papers.Paper, error) {
	b := sq.Select(paperColumns...).
		From("authorship").
		Join("paper ON authorship.paper_id = paper.id").
		Where(sq.Eq{"authorship.author_id": a.ID().String()}).
		Where(sq.GtOrEq{"paper.updated": papers.FormatTime(w.Since)}).
		GroupBy("paper.id").
		OrderBy("paper.updated DESC")

	if w.Until.IsZero() {
		b = b.Where(sq.Expr("paper.updated <= datetime('now')"))
	} else {
		b = b.Where(sq.LtOrEq{"paper.updated": papers.FormatTime(w.Until)})
	}
	if w.VisibleOnly {
		b = b.Where(sq.Eq{"paper.visible": 1})
	}
	if w.Limit > 0 {
		b = b.Limit(w.Limit)
	}

	out, err := listPapers(ctx, s.q, b)
	if err != nil {
		return nil, errors.WrapResource("query", "papers of author", a.ID().String(), err)
	}
	return out, nil
}

func (s *AuthorStore) list(ctx context.Context, b sq.SelectBuilder) ([]papers.Author, error) {
	out, err := listAuthors(ctx, s.q, b)
	if err != nil {
		return nil, errors.WrapResource("query", "author", "", err)
	}
	return out, nil
}

func listAuthors(ctx context.Context, q querier, b sq.Sqlizer) ([]papers.Author, error) {
	rows, err := query(ctx, q, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []papers.Author
	for rows.Next() {
		a, err := scanAuthor(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAuthor(scan func(dest ...any) error) (papers.Author, error) {
	var (
		rawID, family, given string
		suffix               sql.NullString
		followed             bool
	)
	if err := scan(&rawID, &family, &given, &suffix, &followed); err != nil {
		return papers.Author{}, err
	}
	id, err := identity.Parse(rawID)
	if err != nil {
		return papers.Author{}, err
	}
	return papers.LoadAuthor(id, family, given, suffix.String, followed)
}
