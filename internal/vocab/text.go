package vocab

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the lookup key of a phrase: surrounding whitespace trimmed,
// NFC normalized and Unicode case folded, so "Bücher", "BÜCHER" and a
// decomposed "Bücher" all produce the same key.
//
// A new Caser is created per call; cases.Caser values are not safe for
// concurrent use.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(s))
}
