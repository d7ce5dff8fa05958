package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var monthAbbrevs = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var (
	reSlashDate = regexp.MustCompile(`^(\d{1,2})([/-])(\d{1,2})[/-](\d{2,4})$`)
	// "Jan 15, 2024" / "JAN 15 2024"
	reMonthFirst = regexp.MustCompile(`(?i)^([A-Za-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{2,4})$`)
	// "15 Jan 2024"
	reDayFirst = regexp.MustCompile(`(?i)^(\d{1,2})\s+([A-Za-z]{3,9})\.?,?\s+(\d{2,4})$`)
)

// NormalizeDate canonicalizes a transcribed date to month-first form.
// Three-letter month names map to numeric months; slash-delimited dates whose
// first component exceeds 12 are treated as day-first and swapped. Unparseable
// input is returned trimmed but otherwise untouched.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[3])
		sep := m[2]
		if first > 12 && second <= 12 {
			// day-first layout; swap to month-first
			return fmt.Sprintf("%d%s%d%s%s", second, sep, first, sep, m[4])
		}
		return s
	}

	if m := reMonthFirst.FindStringSubmatch(s); m != nil {
		if month, ok := monthAbbrevs[strings.ToUpper(m[1][:3])]; ok {
			day, _ := strconv.Atoi(m[2])
			return fmt.Sprintf("%02d/%02d/%s", month, day, m[3])
		}
	}
	if m := reDayFirst.FindStringSubmatch(s); m != nil {
		if month, ok := monthAbbrevs[strings.ToUpper(m[2][:3])]; ok {
			day, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%02d/%02d/%s", month, day, m[3])
		}
	}
	return s
}
