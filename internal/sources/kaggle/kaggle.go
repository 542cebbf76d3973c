// Package kaggle reads the arXiv metadata snapshot published on Kaggle, a
// JSON-lines file with one paper per line.
package kaggle

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

// versionLayout is the timestamp format of the versions array.
const versionLayout = "Mon, 2 Jan 2006 15:04:05 MST"

// maxLine bounds a single record. Abstracts make lines long.
const maxLine = 16 << 20

type record struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Abstract   string `json:"abstract"`
	Categories string `json:"categories"`
	Versions   []struct {
		Version string `json:"version"`
		Created string `json:"created"`
	} `json:"versions"`
	AuthorsParsed [][]string `json:"authors_parsed"`
}

// Reader yields the papers of a snapshot that belong to the tracked
// categories.
type Reader struct {
	scanner    *bufio.Scanner
	categories map[string]bool
	name       string
	line       int
}

// NewReader reads records from r. name is used in error messages.
// Records with none of the given categories are skipped; no categories
// means every record is kept.
func NewReader(r io.Reader, name string, categories []string) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64<<10), maxLine)

	cats := make(map[string]bool, len(categories))
	for _, c := range categories {
		cats[c] = true
	}
	return &Reader{scanner: s, categories: cats, name: name}
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int { return r.line }

// Next returns the next matching paper, or io.EOF when the input is
// exhausted. A malformed record yields an *errors.ParseError; reading can
// continue after it.
func (r *Reader) Next() (*papers.Paper, error) {
	for r.scanner.Scan() {
		r.line++
		raw := r.scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, r.parseError("invalid JSON", err)
		}
		if !r.keep(rec.Categories) {
			continue
		}
		p, err := rec.paper()
		if err != nil {
			return nil, r.parseError("invalid record "+rec.ID, err)
		}
		return p, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", r.name, err)
	}
	return nil, io.EOF
}

func (r *Reader) keep(categories string) bool {
	if len(r.categories) == 0 {
		return true
	}
	for _, c := range strings.Fields(categories) {
		if r.categories[c] {
			return true
		}
	}
	return false
}

func (r *Reader) parseError(msg string, err error) error {
	return &errors.ParseError{
		Format:  "jsonl",
		File:    r.name,
		Line:    r.line,
		Message: msg + ": " + err.Error(),
		Err:     err,
	}
}

func (rec record) paper() (*papers.Paper, error) {
	if len(rec.Versions) == 0 {
		return nil, errors.NewValidationError("versions", nil, "record has no versions")
	}
	first, last := rec.Versions[0], rec.Versions[len(rec.Versions)-1]

	created, err := time.Parse(versionLayout, first.Created)
	if err != nil {
		return nil, errors.WrapValidation("created", err)
	}
	updated, err := time.Parse(versionLayout, last.Created)
	if err != nil {
		return nil, errors.WrapValidation("updated", err)
	}
	version, err := strconv.Atoi(strings.TrimPrefix(last.Version, "v"))
	if err != nil {
		return nil, errors.WrapValidation("version", err)
	}

	authors := make([]papers.Author, 0, len(rec.AuthorsParsed))
	for _, parts := range rec.AuthorsParsed {
		var family, given, suffix string
		if len(parts) > 0 {
			family = strings.TrimSpace(parts[0])
		}
		if len(parts) > 1 {
			given = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			suffix = strings.TrimSpace(parts[2])
		}
		a, err := papers.NewAuthor(family, given, suffix)
		if err != nil {
			// Collaboration placeholders come through with no family name.
			continue
		}
		authors = append(authors, a)
	}

	return papers.NewPaper(rec.ID, created, updated, papers.Meta{
		Title:      strings.Join(strings.Fields(rec.Title), " "),
		Abstract:   strings.Join(strings.Fields(rec.Abstract), " "),
		Authors:    authors,
		Version:    version,
		Categories: strings.Fields(rec.Categories),
	})
}
