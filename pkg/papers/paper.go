package papers

import (
	"encoding/json"
	"regexp"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
)

// TimeLayout is the textual timestamp format used for persistence.
const TimeLayout = "2006-01-02 15:04:05"

var versionSuffix = regexp.MustCompile(`v\d+$`)

// Paper is a tracked publication, keyed by its unversioned source id.
type Paper struct {
	ID      string
	Created time.Time
	Updated time.Time
	Visible bool
	Meta    Meta
}

// Meta carries the descriptive fields of a paper. It is persisted as a JSON
// document alongside the paper row.
type Meta struct {
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Authors    []Author `json:"authors"`
	Version    int      `json:"version"`
	Categories []string `json:"categories"`
}

// NewPaper builds a visible paper and validates it. Timestamps are stored in
// UTC at second precision.
func NewPaper(id string, created, updated time.Time, meta Meta) (*Paper, error) {
	p := &Paper{
		ID:      id,
		Created: created.UTC().Truncate(time.Second),
		Updated: updated.UTC().Truncate(time.Second),
		Visible: true,
		Meta:    meta,
	}
	p.Meta.Categories = dedupe(meta.Categories)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParsePaper is like NewPaper but takes timestamps in TimeLayout.
func ParsePaper(id, created, updated string, meta Meta) (*Paper, error) {
	c, err := ParseTime("created", created)
	if err != nil {
		return nil, err
	}
	u, err := ParseTime("updated", updated)
	if err != nil {
		return nil, err
	}
	return NewPaper(id, c, u, meta)
}

// ParseTime parses a TimeLayout timestamp. The field name is used in the
// returned validation error.
func ParseTime(field, s string) (time.Time, error) {
	err := validation.Errors{
		field: validation.Validate(s, validation.Required, validation.Date(TimeLayout)),
	}.Filter()
	if err != nil {
		return time.Time{}, invalid(err)
	}
	return time.ParseInLocation(TimeLayout, s, time.UTC)
}

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Validate checks the paper invariants.
func (p *Paper) Validate() error {
	err := validation.Errors{
		"id": validation.Validate(p.ID,
			validation.Required,
			validation.By(unversioned),
		),
		"created": validation.Validate(p.Created, validation.Required),
		"updated": validation.Validate(p.Updated,
			validation.Required,
			validation.Min(p.Created).Error("must not be before created"),
		),
		"version": validation.Validate(p.Meta.Version, validation.Required, validation.Min(1)),
		"authors": validation.Validate(p.Meta.Authors, validation.By(authorsValid)),
	}.Filter()
	if err != nil {
		return invalid(err)
	}
	return nil
}

func unversioned(value any) error {
	id, _ := value.(string)
	if versionSuffix.MatchString(id) {
		return errors.New("must not carry a version suffix")
	}
	return nil
}

func authorsValid(value any) error {
	authors, _ := value.([]Author)
	for _, a := range authors {
		if a.family == "" {
			return errors.New("author without family name")
		}
	}
	return nil
}

// CreatedString returns Created in TimeLayout.
func (p *Paper) CreatedString() string { return FormatTime(p.Created) }

// UpdatedString returns Updated in TimeLayout.
func (p *Paper) UpdatedString() string { return FormatTime(p.Updated) }

// Title returns the paper title.
func (p *Paper) Title() string { return p.Meta.Title }

// Version returns the source version number.
func (p *Paper) Version() int { return p.Meta.Version }

// Authors returns the credited authors in source order.
func (p *Paper) Authors() []Author { return p.Meta.Authors }

// URL returns the abstract page of the paper.
func (p *Paper) URL() string {
	return constants.ArxivAbsURL + p.ID
}

// MarshalMeta encodes the metadata document.
func (p *Paper) MarshalMeta() ([]byte, error) {
	return json.Marshal(p.Meta)
}

// UnmarshalMeta decodes a metadata document. Embedded authors are checked
// against their stored identities.
func UnmarshalMeta(b []byte) (Meta, error) {
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, errors.WrapParse("json", "", err)
	}
	return m, nil
}

// SamePaper reports whether a and b are the same paper. Papers are equal
// when their ids are equal.
func SamePaper(a, b *Paper) bool {
	return a.ID == b.ID
}

func dedupe(categories []string) []string {
	if categories == nil {
		return []string{}
	}
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// invalid converts ozzo validation errors into a ValidationError naming the
// first failing field.
func invalid(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errors.WrapValidation("", err)
	}
	fields := make([]string, 0, len(errs))
	for k := range errs {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	field := fields[0]
	return errors.NewValidationError(field, nil, errs.Error())
}
