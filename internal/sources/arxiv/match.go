package arxiv

import (
	"slices"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/identity"
	"github.com/agentstation/papertrail/pkg/names"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Candidate is an author found in search results, with the papers that
// credit them, most recent first.
type Candidate struct {
	Author papers.Author
	Papers []*papers.Paper
}

// MatchAuthors collects the authors credited on ps whose name fits name.
// Family names must match after folding; given names must be compatible,
// so "R. Munos" finds both "R. Munos" and "Rémi Munos".
func MatchAuthors(name string, ps []*papers.Paper) []Candidate {
	want := names.Parse(name)
	family := names.Fold(want.Family)

	byID := map[identity.Identity]*Candidate{}
	var order []identity.Identity
	for _, p := range ps {
		for _, a := range papers.Unique(p.Authors()) {
			if names.Fold(a.Family()) != family || !names.Compatible(want.Given, a.Given()) {
				continue
			}
			c, ok := byID[a.ID()]
			if !ok {
				c = &Candidate{Author: a}
				byID[a.ID()] = c
				order = append(order, a.ID())
			}
			c.Papers = append(c.Papers, p)
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		c := byID[id]
		slices.SortStableFunc(c.Papers, func(a, b *papers.Paper) int {
			return b.Updated.Compare(a.Updated)
		})
		out = append(out, *c)
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return papers.ByName(a.Author, b.Author)
	})
	return out
}

// Resolve picks the single candidate meant by name. A candidate whose
// display string equals the query after folding wins over looser matches.
func Resolve(name string, candidates []Candidate) (Candidate, error) {
	switch len(candidates) {
	case 0:
		return Candidate{}, errors.NewNotFoundError("author", name)
	case 1:
		return candidates[0], nil
	}

	want := names.Fold(names.Parse(name).String())
	var exact []Candidate
	for _, c := range candidates {
		if names.Fold(c.Author.String()) == want {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}

	display := make([]string, len(candidates))
	for i, c := range candidates {
		display[i] = c.Author.String()
	}
	return Candidate{}, &errors.AmbiguousError{Query: name, Candidates: display}
}
