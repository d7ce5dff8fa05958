package match

import (
	"sort"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// DefaultMaxResults bounds the ranked list returned per record.
const DefaultMaxResults = 10

// Rank merges single-invoice and combination matches into one list, drops
// duplicate identities (first occurrence wins), and orders by score
// descending. The sort is stable, so equally-scored matches keep their
// discovery order. A non-positive max falls back to DefaultMaxResults.
func Rank(singles, combos []entity.InvoiceMatch, max int) []entity.InvoiceMatch {
	if max <= 0 {
		max = DefaultMaxResults
	}

	merged := make([]entity.InvoiceMatch, 0, len(singles)+len(combos))
	seen := make(map[string]struct{}, len(singles)+len(combos))
	for _, m := range singles {
		if _, dup := seen[m.InvoiceID]; dup {
			continue
		}
		seen[m.InvoiceID] = struct{}{}
		merged = append(merged, m)
	}
	for _, m := range combos {
		if _, dup := seen[m.InvoiceID]; dup {
			continue
		}
		seen[m.InvoiceID] = struct{}{}
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}
