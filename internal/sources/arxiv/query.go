// Package arxiv fetches paper metadata from the arXiv export API.
package arxiv

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/papertrail/pkg/names"
)

// Sort fields and orders understood by the API.
const (
	SortByLastUpdated = "lastUpdatedDate"
	SortBySubmitted   = "submittedDate"
	SortByRelevance   = "relevance"

	SortDescending = "descending"
	SortAscending  = "ascending"
)

// Query describes an arXiv search.
type Query struct {
	// Author is a free-form author name. Empty means any author.
	Author string
	// Categories restricts results to papers in any of these categories.
	Categories []string
	// SortBy is one of the SortBy constants. Defaults to SortByLastUpdated.
	SortBy string
	// SortOrder is SortDescending or SortAscending. Defaults to descending.
	SortOrder string
}

// String renders the search_query expression, e.g.
// "(au:Munos AND au:Remi) AND (cat:cs.LG OR cat:cs.AI)".
func (q Query) String() string {
	var groups []string

	if q.Author != "" {
		var terms []string
		n := names.Parse(q.Author)
		for _, tok := range names.Tokens(names.Fold(n.Family + " " + n.Given)) {
			// Single letters match far too many authors.
			if len([]rune(tok)) < 2 {
				continue
			}
			terms = append(terms, "au:"+tok)
		}
		if len(terms) > 0 {
			groups = append(groups, group(terms, " AND "))
		}
	}

	if len(q.Categories) > 0 {
		terms := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			terms[i] = "cat:" + c
		}
		groups = append(groups, group(terms, " OR "))
	}

	return strings.Join(groups, " AND ")
}

func group(terms []string, op string) string {
	if len(terms) == 1 {
		return terms[0]
	}
	return "(" + strings.Join(terms, op) + ")"
}

// Values returns the request parameters for one page of results.
func (q Query) Values(start, max int) url.Values {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortByLastUpdated
	}
	order := q.SortOrder
	if order == "" {
		order = SortDescending
	}
	return url.Values{
		"search_query": {q.String()},
		"start":        {strconv.Itoa(start)},
		"max_results":  {strconv.Itoa(max)},
		"sortBy":       {sortBy},
		"sortOrder":    {order},
	}
}
