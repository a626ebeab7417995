// internal/search/normalize.go
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize trims, collapses internal whitespace, and lowercases.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// StripDiacritics returns the normalized form with accent marks removed,
// so "sữa" and "sua" compare equal. Falls back to the normalized form if
// the transform fails on malformed input.
func StripDiacritics(s string) string {
	normalized := Normalize(s)
	stripped, _, err := transform.String(stripMarks, normalized)
	if err != nil {
		return normalized
	}
	return stripped
}
