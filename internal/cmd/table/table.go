// Package table converts papertrail records to table rows for CLI output.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/agentstation/papertrail"
	"github.com/agentstation/papertrail/internal/cmd/emoji"
	"github.com/agentstation/papertrail/internal/sources/arxiv"
	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// maxTitle is where titles are cut in narrow tables.
const maxTitle = 72

// Authors lists authors with their identity and follow state.
func Authors(authors []papers.Author) Data {
	rows := make([][]string, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, []string{a.String(), a.ID().String(), followMark(a.Followed())})
	}
	return Data{
		Headers:         []string{"Author", "ID", "Followed"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignCenter},
	}
}

// Columns selects the optional paper columns.
type Columns struct {
	// Wide adds the categories, the abstract and the visibility flag.
	Wide bool
	// Coauthors lists every author instead of the first three.
	Coauthors bool
	// URL adds the abstract page link.
	URL bool
}

// Papers lists papers in the order given.
func Papers(ps []*papers.Paper, cols Columns) Data {
	headers := []string{"ID", "Updated", "Version", "Title", "Authors"}
	if cols.URL {
		headers = append(headers, "URL")
	}
	if cols.Wide {
		headers = append(headers, "Categories", "Abstract", "Visible")
	}

	shown := 3
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		if cols.Coauthors {
			shown = len(p.Authors())
		}
		row := []string{
			p.ID,
			humanize.Time(p.Updated),
			"v" + strconv.Itoa(p.Version()),
			Truncate(p.Title(), maxTitle, cols.Wide),
			AuthorNames(p.Authors(), shown),
		}
		if cols.URL {
			row = append(row, p.URL())
		}
		if cols.Wide {
			row = append(row,
				strings.Join(p.Meta.Categories, ", "),
				p.Meta.Abstract,
				followMark(p.Visible),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// Listings flattens listings into one row per paper, grouped by author.
func Listings(listings []papertrail.Listing, cols Columns) Data {
	data := Papers(nil, cols)
	data.Headers = append([]string{"Followee"}, data.Headers...)
	for _, l := range listings {
		inner := Papers(l.Papers, cols)
		for i, row := range inner.Rows {
			name := ""
			if i == 0 {
				name = l.Author.String()
			}
			data.Rows = append(data.Rows, append([]string{name}, row...))
		}
	}
	return data
}

// Candidates lists authors found on arXiv with their latest paper.
func Candidates(candidates []arxiv.Candidate) Data {
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		latest := "-"
		if len(c.Papers) > 0 {
			latest = Truncate(c.Papers[0].Title(), maxTitle, false)
		}
		rows = append(rows, []string{c.Author.String(), strconv.Itoa(len(c.Papers)), latest})
	}
	return Data{
		Headers:         []string{"Author", "Papers", "Latest"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// Stats renders store statistics as a key-value table.
func Stats(s *papertrail.Stats) Data {
	rows := [][]string{
		{"Database", s.Path},
		{"Papers", humanize.Comma(int64(s.Papers))},
		{"Authors", humanize.Comma(int64(s.Authors))},
		{"Followees", humanize.Comma(int64(s.Followees))},
		{"Last updated", paperStamp(s.LastUpdated, false)},
		{"Last created", paperStamp(s.LastCreated, true)},
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// Result lists the per-author outcome of an update.
func Result(r *psync.Result) Data {
	rows := make([][]string, 0, len(r.Authors))
	for _, ar := range r.Authors {
		status := emoji.Success
		if ar.Err != nil {
			status = emoji.Error
		}
		counts := psync.Counts{}
		if ar.Batch != nil {
			counts = ar.Batch.Counts
		}
		rows = append(rows, []string{
			status,
			ar.Author.String(),
			strconv.Itoa(ar.Fetched),
			strconv.Itoa(counts.New),
			strconv.Itoa(counts.Updated),
			strconv.Itoa(counts.Unchanged),
			strconv.Itoa(counts.Rejected),
		})
	}
	return Data{
		Headers: []string{"", "Author", "Fetched", "New", "Updated", "Unchanged", "Rejected"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignCenter, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight,
		},
	}
}

// AuthorNames joins up to n author names, summarizing the rest.
func AuthorNames(authors []papers.Author, n int) string {
	if len(authors) == 0 {
		return "-"
	}
	parts := make([]string, 0, n+1)
	for i, a := range authors {
		if i == n {
			parts = append(parts, fmt.Sprintf("+%d more", len(authors)-n))
			break
		}
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}

// Truncate cuts s to n runes with an ellipsis, unless keep is set.
func Truncate(s string, n int, keep bool) string {
	r := []rune(s)
	if keep || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func paperStamp(p *papers.Paper, created bool) string {
	if p == nil {
		return "-"
	}
	t := p.Updated
	if created {
		t = p.Created
	}
	return fmt.Sprintf("%s (%s, %s)", papers.FormatTime(t), humanize.Time(t), p.ID)
}

func followMark(b bool) string {
	if b {
		return emoji.Success
	}
	return emoji.Optional
}
