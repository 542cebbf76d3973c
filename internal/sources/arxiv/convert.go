package arxiv

import (
	"regexp"
	"strconv"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

var versioned = regexp.MustCompile(`^(.+)v(\d+)$`)

// SplitVersion splits a versioned identifier such as "2101.00001v2" into
// its base id and version number. Identifiers without a version marker are
// version 1.
func SplitVersion(id string) (string, int, error) {
	m := versioned.FindStringSubmatch(id)
	if m == nil {
		if id == "" {
			return "", 0, errors.NewValidationError("id", id, "identifier is empty")
		}
		return id, 1, nil
	}
	v, err := strconv.Atoi(m[2])
	if err != nil || v < 1 {
		return "", 0, errors.NewValidationError("id", id, "invalid version")
	}
	return m[1], v, nil
}

// ToPaper converts an API entry into a paper. Author names are normalized
// and hashed.
func ToPaper(e Entry) (*papers.Paper, error) {
	id, version, err := SplitVersion(e.ID)
	if err != nil {
		return nil, err
	}

	authors := make([]papers.Author, 0, len(e.Authors))
	for _, name := range e.Authors {
		a, err := papers.ParseAuthor(name)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}

	return papers.NewPaper(id, e.Published, e.Updated, papers.Meta{
		Title:      e.Title,
		Abstract:   e.Summary,
		Authors:    authors,
		Version:    version,
		Categories: e.Categories,
	})
}
