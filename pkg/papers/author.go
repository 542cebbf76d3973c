package papers

import (
	"encoding/json"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/identity"
	"github.com/agentstation/papertrail/pkg/names"
)

// Author is a person credited on a paper.
//
// The name parts and the identity derived from them never change after
// construction. Only the followed flag can be toggled, and doing so yields
// a new value.
type Author struct {
	family   string
	given    string
	suffix   string
	followed bool
	id       identity.Identity
}

// NewAuthor builds an author from already normalized name parts.
func NewAuthor(family, given, suffix string) (Author, error) {
	err := validation.Errors{
		"family": validation.Validate(family, validation.Required.Error("family name is required")),
	}.Filter()
	if err != nil {
		return Author{}, invalid(err)
	}
	return Author{
		family: family,
		given:  given,
		suffix: suffix,
		id:     identity.Of(family, given, suffix),
	}, nil
}

// ParseAuthor normalizes a free-form name and builds an author from it.
func ParseAuthor(raw string) (Author, error) {
	n := names.Parse(raw)
	return NewAuthor(n.Family, n.Given, n.Suffix)
}

// LoadAuthor rebuilds an author from persisted fields. The stored id must
// match the identity recomputed from the name parts.
func LoadAuthor(id identity.Identity, family, given, suffix string, followed bool) (Author, error) {
	a, err := NewAuthor(family, given, suffix)
	if err != nil {
		return Author{}, err
	}
	if a.id != id {
		return Author{}, &errors.IdentityMismatchError{
			Name:     a.String(),
			Stored:   id.String(),
			Computed: a.id.String(),
		}
	}
	a.followed = followed
	return a, nil
}

// ID returns the author's identity.
func (a Author) ID() identity.Identity { return a.id }

// Family returns the family name, including any particles.
func (a Author) Family() string { return a.family }

// Given returns the given name(s).
func (a Author) Given() string { return a.given }

// Suffix returns the generational suffix, if any.
func (a Author) Suffix() string { return a.suffix }

// Followed reports whether the author is followed.
func (a Author) Followed() bool { return a.followed }

// Name returns the name parts.
func (a Author) Name() names.Name {
	return names.Name{Family: a.family, Given: a.given, Suffix: a.suffix}
}

// WithFollowed returns a copy of a with the followed flag set to f.
func (a Author) WithFollowed(f bool) Author {
	a.followed = f
	return a
}

// String returns the canonical display string.
func (a Author) String() string {
	return identity.Join(a.family, a.given, a.suffix)
}

type authorJSON struct {
	ID     identity.Identity `json:"id"`
	Family string            `json:"family"`
	Given  string            `json:"given"`
	Suffix string            `json:"suffix"`
}

// MarshalJSON encodes the author as it appears inside paper metadata.
// The followed flag belongs to the author row and is not included.
func (a Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(authorJSON{
		ID:     a.id,
		Family: a.family,
		Given:  a.given,
		Suffix: a.suffix,
	})
}

// UnmarshalJSON decodes an author and checks its identity.
func (a *Author) UnmarshalJSON(b []byte) error {
	var raw authorJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := LoadAuthor(raw.ID, raw.Family, raw.Given, raw.Suffix, false)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ByDisplayString reports whether a and b have the same display string,
// which is how author equality is defined.
func ByDisplayString(a, b Author) bool {
	return a.String() == b.String()
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
)

// ByFamilyName orders authors by family name only, ignoring case and
// diacritics. It is suitable for slices.SortStableFunc.
func ByFamilyName(a, b Author) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a.family, b.family)
}

// ByName orders authors by family name, then given name, then suffix.
func ByName(a, b Author) int {
	if c := ByFamilyName(a, b); c != 0 {
		return c
	}
	collatorMu.Lock()
	defer collatorMu.Unlock()
	if c := collator.CompareString(a.given, b.given); c != 0 {
		return c
	}
	return collator.CompareString(a.suffix, b.suffix)
}

// Unique drops later authors that share an identity with an earlier one.
func Unique(authors []Author) []Author {
	seen := make(map[identity.Identity]bool, len(authors))
	out := authors[:0:0]
	for _, a := range authors {
		if seen[a.id] {
			continue
		}
		seen[a.id] = true
		out = append(out, a)
	}
	return out
}
