package utils

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

var (
	reParenSuffix = regexp.MustCompile(`\s*-?\s*\([^)]*\)`)
	reCommas      = regexp.MustCompile(`\s*,\s*`)
	reSpaces      = regexp.MustCompile(`\s+`)
	rePunct       = regexp.MustCompile(`[^\w\s]`)

	simParams = levenshtein.NewParams()
)

// Similarity returns a 0..1 string-similarity ratio. Case-sensitive; callers
// normalize casing first.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return levenshtein.Similarity(a, b, simParams)
}

// NameSimilarity compares two customer names after normalization.
func NameSimilarity(a, b string) float64 {
	return Similarity(NormalizeCustomerName(a), NormalizeCustomerName(b))
}

// NormalizeCustomerName canonicalizes a customer name for comparison:
// uppercase, parenthetical suffixes removed ("ACME - (SFO) VENDOR"),
// commas and runs of whitespace collapsed, punctuation stripped.
func NormalizeCustomerName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = reParenSuffix.ReplaceAllString(name, "")
	name = reCommas.ReplaceAllString(name, " ")
	name = rePunct.ReplaceAllString(name, "")
	name = reSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// CollapseWhitespace folds internal whitespace runs to single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
