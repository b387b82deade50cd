package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeClaimNumber trims surrounding whitespace, collapses inner runs of
// whitespace and folds case, so " ABC123 ", "abc123" and "ABC123" compare equal.
func NormalizeClaimNumber(claimNumber string) string {
	fields := strings.Fields(claimNumber)
	if len(fields) == 0 {
		return ""
	}
	return cases.Fold().String(strings.Join(fields, " "))
}

// FoldText lowercases and strips diacritics, e.g. "MEDICAÇÃO" -> "medicacao".
func FoldText(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	return cases.Fold().String(stripped)
}
