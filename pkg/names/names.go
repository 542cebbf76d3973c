// Package names splits free-form personal names into the (family, given,
// suffix) triple used to identify authors.
//
// Splitting is a fixed, ordered list of patterns. The first pattern that
// matches wins, so a name carrying both a particle and a suffix is split by
// the particle rule. Matching is case-insensitive.
package names

import (
	"regexp"
	"strings"
)

// Particles lists the nobiliary particles that are kept with the family name.
var Particles = []string{
	"van", "der", "de", "la", "von", "del", "della",
	"da", "mac", "ter", "dem", "di", "vaziri",
}

// Suffixes lists the generational suffixes recognized after a family name.
var Suffixes = []string{"I", "II", "III", "IV", "V", "Sr", "Jr", "Sr.", "Jr."}

// Rule identifies which pattern split a name.
type Rule string

// Rules in the order they are tried.
const (
	RuleDoubleParticle Rule = "double-particle" // "Max van der Ven"
	RuleParticle       Rule = "particle"        // "Ludwig van Beethoven"
	RuleSuffix         Rule = "suffix"          // "John Smith Jr."
	RuleGivenFamily    Rule = "given-family"    // "Remi Munos"
	RuleFallback       Rule = "fallback"        // "Aristotle"
)

// Name is a normalized personal name.
type Name struct {
	Family string
	Given  string
	Suffix string
}

type rule struct {
	name  Rule
	re    *regexp.Regexp
	split func(m []string) Name
}

var rules = compile()

func compile() []rule {
	p := alternation(Particles)
	s := alternation(Suffixes)

	return []rule{
		{
			name: RuleDoubleParticle,
			re:   regexp.MustCompile(`(?i)^(.*)\s+(` + p + `)\s(` + p + `)\s(\S+)$`),
			split: func(m []string) Name {
				return Name{Family: m[2] + " " + m[3] + " " + m[4], Given: m[1]}
			},
		},
		{
			name: RuleParticle,
			re:   regexp.MustCompile(`(?i)^(.*)\s+(` + p + `)\s(\S+)$`),
			split: func(m []string) Name {
				return Name{Family: m[2] + " " + m[3], Given: m[1]}
			},
		},
		{
			name: RuleSuffix,
			re:   regexp.MustCompile(`(?i)^(.*)\s+(\S+)\s(` + s + `)$`),
			split: func(m []string) Name {
				return Name{Family: m[2], Given: m[1], Suffix: m[3]}
			},
		},
		{
			name: RuleGivenFamily,
			re:   regexp.MustCompile(`(?i)^(.*)\s+(\S+)$`),
			split: func(m []string) Name {
				return Name{Family: m[2], Given: m[1]}
			},
		},
	}
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// Split normalizes raw and reports the rule that produced the result.
// Surrounding whitespace is ignored. A name no pattern recognizes becomes
// the family name with empty given name and suffix.
func Split(raw string) (Name, Rule) {
	raw = strings.TrimSpace(raw)
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(raw); m != nil {
			return r.split(m), r.name
		}
	}
	return Name{Family: raw}, RuleFallback
}

// Normalize splits raw into its family, given and suffix parts.
func Normalize(raw string) (family, given, suffix string) {
	n, _ := Split(raw)
	return n.Family, n.Given, n.Suffix
}

// Parse is like Normalize but returns a Name.
func Parse(raw string) Name {
	n, _ := Split(raw)
	return n
}

// String renders the name in reading order, "<given> <family>" followed by
// " <suffix>" when a suffix is present.
func (n Name) String() string {
	if n.Suffix != "" {
		return n.Given + " " + n.Family + " " + n.Suffix
	}
	return n.Given + " " + n.Family
}

// IsZero reports whether the name has no family part.
func (n Name) IsZero() bool {
	return n.Family == ""
}
