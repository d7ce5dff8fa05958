package match

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/parse"
	"github.com/joseph-ayodele/remitmatch/internal/utils"
)

// ComboConfig tunes the multi-invoice combination search. The subset sizes
// and pool cap are empirical defaults, not protocol requirements.
type ComboConfig struct {
	SubsetSizes       []int   // default {2, 3}
	PoolCap           int     // default 50, bounds the combinatorics
	AmountTolerance   float64 // default 0.01
	CustomerThreshold float64 // default 0.7
}

func (c ComboConfig) withDefaults() ComboConfig {
	if len(c.SubsetSizes) == 0 {
		c.SubsetSizes = []int{2, 3}
	}
	if c.PoolCap <= 0 {
		c.PoolCap = 50
	}
	if c.AmountTolerance <= 0 {
		c.AmountTolerance = 0.01
	}
	if c.CustomerThreshold <= 0 {
		c.CustomerThreshold = 0.7
	}
	return c
}

// ComboMatcher searches small invoice subsets whose open amounts sum to the
// check amount — the "one check pays several invoices" case.
type ComboMatcher struct {
	cfg    ComboConfig
	logger *slog.Logger
}

func NewComboMatcher(cfg ComboConfig, logger *slog.Logger) *ComboMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComboMatcher{cfg: cfg.withDefaults(), logger: logger}
}

type comboMember struct {
	inv        entity.InvoiceCandidate
	customerOK bool
}

// Find enumerates qualifying combinations from the number-search candidate
// pool. It activates only when the record carries both an amount and at least
// one invoice-number token and the pool holds at least two distinct
// candidates. Every OCR invoice-number token must be covered by some subset
// member, and the subset total must land within tolerance of the target.
func (m *ComboMatcher) Find(rec entity.ExtractedRecord, pool []entity.InvoiceCandidate) []entity.InvoiceMatch {
	if rec.Amount == nil || len(rec.InvoiceNumbers) == 0 {
		return nil
	}
	target := *rec.Amount

	members := m.buildPool(rec, pool)
	if len(members) < 2 {
		return nil
	}

	var out []entity.InvoiceMatch
	for _, size := range m.cfg.SubsetSizes {
		if size < 2 || size > len(members) {
			continue
		}
		forEachSubset(len(members), size, func(idxs []int) {
			subset := make([]comboMember, size)
			total := 0.0
			for i, ix := range idxs {
				subset[i] = members[ix]
				total += members[ix].inv.Amount
			}
			if math.Abs(total-target) > m.cfg.AmountTolerance {
				return
			}
			if !coversAllTokens(rec.InvoiceNumbers, subset) {
				return
			}
			out = append(out, m.buildMatch(rec, subset, total, target))
		})
	}

	if len(out) > 0 {
		m.logger.Debug("match.combo.found", "combinations", len(out), "target", target)
	}
	return out
}

// buildPool deduplicates by identity, applies the customer-similarity
// restriction when the record names a customer, and caps the pool size.
func (m *ComboMatcher) buildPool(rec entity.ExtractedRecord, pool []entity.InvoiceCandidate) []comboMember {
	name := rec.BestCustomerName()
	seen := make(map[string]struct{}, len(pool))
	var members []comboMember
	for _, inv := range pool {
		key := inv.IdentityKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if inv.Amount == 0 {
			continue
		}

		customerOK := false
		if name != "" {
			sim := utils.NameSimilarity(name, inv.CustomerName)
			if sim < m.cfg.CustomerThreshold {
				continue
			}
			customerOK = true
		}
		members = append(members, comboMember{inv: inv, customerOK: customerOK})
		if len(members) >= m.cfg.PoolCap {
			break
		}
	}
	return members
}

// coversAllTokens requires each OCR token to match some member's invoice
// number: exact, normalized, or substring in either direction.
func coversAllTokens(tokens []string, subset []comboMember) bool {
	for _, tok := range tokens {
		tokUpper := strings.ToUpper(strings.TrimSpace(tok))
		tokNorm := parse.NormalizeInvoiceNumber(tok)
		covered := false
		for _, mem := range subset {
			num := strings.ToUpper(mem.inv.InvoiceNumber)
			numNorm := parse.NormalizeInvoiceNumber(num)
			if num == tokUpper || (tokNorm != "" && numNorm == tokNorm) ||
				strings.Contains(num, tokUpper) || strings.Contains(tokUpper, num) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func (m *ComboMatcher) buildMatch(rec entity.ExtractedRecord, subset []comboMember, total, target float64) entity.InvoiceMatch {
	score := 200.0
	reasons := []string{
		fmt.Sprintf("Combination of %d invoices totaling $%.2f (target $%.2f)", len(subset), total, target),
	}

	if math.Abs(total-target) <= 0.01 {
		score += 100
		reasons = append(reasons, fmt.Sprintf("Exact combined amount match: $%.2f", total))
	}

	allCustomerOK := true
	for _, mem := range subset {
		if !mem.customerOK {
			allCustomerOK = false
			break
		}
	}
	if allCustomerOK {
		score += 50
		reasons = append(reasons, "All member invoices match the customer")
	}

	// Bias toward the minimal explanation.
	score -= 10 * float64(len(subset)-2)

	numbers := make([]string, len(subset))
	keys := make([]string, len(subset))
	for i, mem := range subset {
		numbers[i] = mem.inv.InvoiceNumber
		keys[i] = mem.inv.IdentityKey()
	}

	return entity.InvoiceMatch{
		InvoiceID:     strings.Join(keys, "|"),
		InvoiceNumber: strings.Join(numbers, "+"),
		CustomerName:  subset[0].inv.CustomerName,
		Amount:        total,
		DueDate:       subset[0].inv.DueDate,
		Subsidiary:    subset[0].inv.Subsidiary,
		Score:         score,
		Reasons:       reasons,
	}
}

// forEachSubset visits every size-k index subset of [0,n) in lexicographic
// order, reusing one index buffer.
func forEachSubset(n, k int, visit func(idxs []int)) {
	idxs := make([]int, k)
	for i := range idxs {
		idxs[i] = i
	}
	for {
		visit(idxs)
		// advance to the next combination
		i := k - 1
		for i >= 0 && idxs[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idxs[i]++
		for j := i + 1; j < k; j++ {
			idxs[j] = idxs[j-1] + 1
		}
	}
}
