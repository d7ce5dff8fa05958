package parse

import (
	"regexp"
	"strings"
)

var (
	reNonDigit    = regexp.MustCompile(`\D`)
	reCRLF        = regexp.MustCompile(`\r\n?`)
	reTabs        = regexp.MustCompile(`\t+`)
	reMultiSpace  = regexp.MustCompile(` {2,}`)
	reMultiBlank  = regexp.MustCompile(`\n{3,}`)
	reRuledLines  = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)
)

// invoicePrefixes are stripped from invoice numbers before comparison, most
// specific first.
var invoicePrefixes = []string{"INVOICE #", "INVOICE#", "INVOICE", "INV-", "INV"}

// NormalizeCheckNumber canonicalizes a check number: strip non-digits, drop
// leading zeros, keep at least one digit. Returns "" when no digits survive.
func NormalizeCheckNumber(s string) string {
	digits := reNonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return ""
	}
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// NormalizeInvoiceNumber uppercases and strips common labeling prefixes
// ("INVOICE #", "INV-", ...) so number comparisons tolerate formatting noise.
// Runs to a fixed point, so the result is idempotent.
func NormalizeInvoiceNumber(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for {
		stripped := false
		for _, prefix := range invoicePrefixes {
			if strings.HasPrefix(s, prefix) {
				s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
				stripped = true
			}
		}
		if !stripped {
			return s
		}
	}
}

// NormalizeText collapses noisy whitespace and strips ruled-line artifacts
// from transcribed text before rule matching. Conservative: keeps line breaks.
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reRuledLines.ReplaceAllString(s, "")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
