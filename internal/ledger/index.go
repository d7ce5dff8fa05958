package ledger

import (
	"math"
	"sort"
	"strings"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/parse"
	"github.com/joseph-ayodele/remitmatch/internal/utils"
)

// minCustomerSimilarity is the similarity floor for the fuzzy leg of
// customer search.
const minCustomerSimilarity = 0.4

// Index is an in-memory snapshot of open invoices implementing the three
// search shapes. Every backing store (CSV file, SQLite, Postgres snapshot)
// funnels into one of these, so search semantics are identical everywhere.
type Index struct {
	invoices []entity.InvoiceCandidate
}

func NewIndex(invoices []entity.InvoiceCandidate) *Index {
	return &Index{invoices: invoices}
}

func (ix *Index) Len() int { return len(ix.invoices) }

// ByNumber searches invoice numbers: exact, normalized, containment in either
// direction, and numeric equality of normalized digit-only forms.
func (ix *Index) ByNumber(query string, limit int) []entity.InvoiceCandidate {
	search := strings.ToUpper(strings.TrimSpace(query))
	searchNorm := parse.NormalizeInvoiceNumber(search)
	if search == "" {
		return nil
	}

	var out []entity.InvoiceCandidate
	for _, inv := range ix.invoices {
		if limit > 0 && len(out) >= limit {
			break
		}
		num := strings.ToUpper(inv.InvoiceNumber)
		numNorm := parse.NormalizeInvoiceNumber(num)

		switch {
		case num == search:
			out = append(out, inv)
		case numNorm != "" && searchNorm != "" && numNorm == searchNorm:
			out = append(out, inv)
		case strings.Contains(num, search) || (searchNorm != "" && strings.Contains(num, searchNorm)):
			out = append(out, inv)
		// Containment needles must be non-empty: a number that normalizes
		// away entirely (a bare "INV" row) would otherwise match every query.
		case num != "" && strings.Contains(search, num):
			out = append(out, inv)
		case numNorm != "" && strings.Contains(search, numNorm):
			out = append(out, inv)
		case isDigits(searchNorm) && isDigits(numNorm) && trimLeadingZeros(searchNorm) == trimLeadingZeros(numNorm):
			out = append(out, inv)
		}
	}
	return out
}

// ByCustomer scores exact normalized matches 1.0, containment 0.8, and falls
// back to a similarity ratio above minCustomerSimilarity; returns the best
// matches first.
func (ix *Index) ByCustomer(name string, limit int) []entity.InvoiceCandidate {
	search := utils.NormalizeCustomerName(name)
	if search == "" {
		return nil
	}

	type scored struct {
		score float64
		inv   entity.InvoiceCandidate
	}
	var hits []scored
	for _, inv := range ix.invoices {
		customer := utils.NormalizeCustomerName(inv.CustomerName)
		switch {
		case customer == "":
			continue
		case customer == search:
			hits = append(hits, scored{1.0, inv})
		case strings.Contains(customer, search) || strings.Contains(search, customer):
			hits = append(hits, scored{0.8, inv})
		default:
			if sim := utils.Similarity(search, customer); sim > minCustomerSimilarity {
				hits = append(hits, scored{sim, inv})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]entity.InvoiceCandidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.inv)
	}
	return out
}

// ByAmount returns invoices whose open amount is within tolerance. Rows with
// a zero amount are never amount-matchable.
func (ix *Index) ByAmount(amount, tolerance float64, limit int) []entity.InvoiceCandidate {
	var out []entity.InvoiceCandidate
	for _, inv := range ix.invoices {
		if inv.Amount == 0 {
			continue
		}
		if math.Abs(inv.Amount-amount) <= tolerance {
			out = append(out, inv)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// trimLeadingZeros reduces a digit string to its numeric form so "007" and
// "7" compare equal without integer parsing (and without overflow on long
// reference numbers).
func trimLeadingZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
