package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s with diacritics removed and case folded, for comparing
// names typed without accents against their accented spelling.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// Tokens splits s on whitespace and trims the punctuation that commonly
// follows initials.
func Tokens(s string) []string {
	var out []string
	for _, f := range strings.Fields(s) {
		f = strings.Trim(f, ".,;")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Compatible reports whether the given names a and b could belong to the
// same person. Tokens are compared pairwise after folding; an initial is
// compatible with any token starting with the same letter. Surplus tokens
// on either side are ignored.
func Compatible(a, b string) bool {
	ta, tb := Tokens(Fold(a)), Tokens(Fold(b))
	for i := 0; i < len(ta) && i < len(tb); i++ {
		x, y := ta[i], tb[i]
		if x == y {
			continue
		}
		if isInitial(x) || isInitial(y) {
			if firstRune(x) == firstRune(y) {
				continue
			}
		}
		return false
	}
	return true
}

func isInitial(s string) bool {
	return len([]rune(s)) == 1
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
