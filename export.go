package papertrail

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/identity"
	"github.com/agentstation/papertrail/pkg/logging"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Format is a followee list encoding.
type Format string

// Supported followee list encodings.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the format named s, ignoring case. "yml" is accepted
// for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.NewValidationError("format", s, "must be csv, json or yaml")
}

// authorRecord is the exported form of a followee.
type authorRecord struct {
	ID     string `json:"id" yaml:"id"`
	Family string `json:"family" yaml:"family"`
	Given  string `json:"given" yaml:"given"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

func newAuthorRecord(a papers.Author) authorRecord {
	return authorRecord{
		ID:     a.ID().String(),
		Family: a.Family(),
		Given:  a.Given(),
		Suffix: a.Suffix(),
	}
}

func (r authorRecord) author() (papers.Author, error) {
	id, err := identity.Parse(r.ID)
	if err != nil {
		return papers.Author{}, err
	}
	return papers.LoadAuthor(id, r.Family, r.Given, r.Suffix, true)
}

// Export writes the followed authors to w. CSV rows are
// id,family,given,suffix without a header.
func (p *papertrail) Export(ctx context.Context, w io.Writer, format Format) error {
	followees, err := p.Followees(ctx)
	if err != nil {
		return err
	}

	records := make([]authorRecord, len(followees))
	for i, a := range followees {
		records[i] = newAuthorRecord(a)
	}

	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		for _, r := range records {
			if err := cw.Write([]string{r.ID, r.Family, r.Given, r.Suffix}); err != nil {
				return errors.WrapIO("write", "csv", err)
			}
		}
		cw.Flush()
		return errors.WrapIO("write", "csv", cw.Error())
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WrapIO("write", "json", enc.Encode(records))
	case FormatYAML:
		b, err := yaml.Marshal(records)
		if err != nil {
			return errors.WrapParse("yaml", "", err)
		}
		_, err = w.Write(b)
		return errors.WrapIO("write", "yaml", err)
	}
	return errors.NewValidationError("format", format, "must be csv, json or yaml")
}

// Import follows every author read from r, in the format Export writes.
// Authors are checked against their identity before anything is stored,
// and the whole list is applied in one transaction. It returns the number
// of authors that were not followed before.
func (p *papertrail) Import(ctx context.Context, r io.Reader, format Format) (int, error) {
	records, err := readRecords(r, format)
	if err != nil {
		return 0, err
	}

	authors := make([]papers.Author, 0, len(records))
	for _, rec := range records {
		a, err := rec.author()
		if err != nil {
			return 0, err
		}
		authors = append(authors, a)
	}

	var added int
	err = p.store.Do(ctx, func(tx *store.Tx) error {
		for _, a := range papers.Unique(authors) {
			stored, err := tx.Authors().Get(ctx, a.ID())
			switch {
			case err == nil && stored.Followed():
				continue
			case err == nil:
				err = tx.Authors().Update(ctx, a)
			case errors.IsNotFound(err):
				err = tx.Authors().Save(ctx, a)
			}
			if err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Ctx(ctx).Info().Int("read", len(authors)).Int("followed", added).Msg("Imported followees")
	return added, nil
}

func readRecords(r io.Reader, format Format) ([]authorRecord, error) {
	var records []authorRecord
	switch format {
	case FormatCSV:
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = 4
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, errors.WrapParse("csv", "", err)
		}
		for _, row := range rows {
			records = append(records, authorRecord{ID: row[0], Family: row[1], Given: row[2], Suffix: row[3]})
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, errors.WrapParse("json", "", err)
		}
	case FormatYAML:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.WrapIO("read", "yaml", err)
		}
		if err := yaml.Unmarshal(b, &records); err != nil {
			return nil, errors.WrapParse("yaml", "", err)
		}
	default:
		return nil, errors.NewValidationError("format", format, "must be csv, json or yaml")
	}
	return records, nil
}
