package arxiv

import (
	"strings"
	"time"

	"github.com/agentstation/papertrail/pkg/errors"
)

// feed is the subset of the Atom response we read.
type feed struct {
	TotalResults int         `xml:"totalResults"`
	StartIndex   int         `xml:"startIndex"`
	ItemsPerPage int         `xml:"itemsPerPage"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Updated   string `xml:"updated"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
	PrimaryCategory struct {
		Term string `xml:"term,attr"`
	} `xml:"primary_category"`
}

// Entry is one search result as returned by the API.
type Entry struct {
	// ID is the versioned identifier, e.g. "2101.00001v2".
	ID              string
	Title           string
	Summary         string
	Published       time.Time
	Updated         time.Time
	Authors         []string
	Categories      []string
	PrimaryCategory string
}

// Page is one page of search results.
type Page struct {
	Entries []Entry
	// Total is the number of results matching the query.
	Total int
	// Start is the index of the first entry.
	Start int
}

const absPrefix = "/abs/"

func (f *feed) page() (*Page, error) {
	p := &Page{Total: f.TotalResults, Start: f.StartIndex}
	for _, e := range f.Entries {
		if strings.Contains(e.ID, "/api/errors") {
			msg := collapse(e.Summary)
			if msg == "" {
				msg = collapse(e.Title)
			}
			return nil, errors.NewAPIError(sourceName, 400, msg)
		}
		entry, err := e.entry()
		if err != nil {
			return nil, err
		}
		p.Entries = append(p.Entries, entry)
	}
	return p, nil
}

func (e atomEntry) entry() (Entry, error) {
	id := strings.TrimSpace(e.ID)
	if i := strings.Index(id, absPrefix); i >= 0 {
		id = id[i+len(absPrefix):]
	}

	published, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published))
	if err != nil {
		return Entry{}, errors.NewParseError("atom", "", "published of "+id, err)
	}
	updated, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated))
	if err != nil {
		return Entry{}, errors.NewParseError("atom", "", "updated of "+id, err)
	}

	out := Entry{
		ID:              id,
		Title:           collapse(e.Title),
		Summary:         collapse(e.Summary),
		Published:       published,
		Updated:         updated,
		PrimaryCategory: e.PrimaryCategory.Term,
	}
	for _, a := range e.Authors {
		if name := collapse(a.Name); name != "" {
			out.Authors = append(out.Authors, name)
		}
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			out.Categories = append(out.Categories, c.Term)
		}
	}
	return out, nil
}

// collapse joins the words of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
