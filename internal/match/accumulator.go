package match

import (
	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// Accumulator gathers additive evidence per candidate identity within one
// matching pass. Entries preserve discovery order, which doubles as the
// deterministic tie-break when equally-scored matches are ranked later.
type Accumulator struct {
	order   []string
	entries map[string]*accEntry
}

type accEntry struct {
	candidate entity.InvoiceCandidate
	score     float64
	reasons   []string
	// fallbackOnly is true while the entry's sole evidence is the
	// amount-only last-resort pass; such entries bypass the score floor.
	fallbackOnly bool
}

func NewAccumulator() *Accumulator {
	return &Accumulator{entries: make(map[string]*accEntry)}
}

// Len is the number of distinct candidates discovered so far.
func (a *Accumulator) Len() int { return len(a.order) }

// Add credits points and reasons to the candidate, registering it on first
// sight. Evidence from a primary pass clears the fallback-only marker.
func (a *Accumulator) Add(c entity.InvoiceCandidate, points float64, reasons ...string) {
	a.add(c, points, false, reasons...)
}

// AddFallback credits last-resort amount-only evidence.
func (a *Accumulator) AddFallback(c entity.InvoiceCandidate, points float64, reasons ...string) {
	a.add(c, points, true, reasons...)
}

func (a *Accumulator) add(c entity.InvoiceCandidate, points float64, fallback bool, reasons ...string) {
	key := c.IdentityKey()
	e, exists := a.entries[key]
	if !exists {
		e = &accEntry{candidate: c, fallbackOnly: fallback}
		a.entries[key] = e
		a.order = append(a.order, key)
	}
	if !fallback {
		e.fallbackOnly = false
	}
	e.score += points
	e.reasons = append(e.reasons, reasons...)
}

// Matches converts the accumulated evidence into final InvoiceMatch values in
// discovery order. Candidates at or below floor are discarded as noise unless
// their only evidence is the amount-only fallback, which is surfaced as-is.
func (a *Accumulator) Matches(floor float64) []entity.InvoiceMatch {
	out := make([]entity.InvoiceMatch, 0, len(a.order))
	for _, key := range a.order {
		e := a.entries[key]
		if e.score <= floor && !e.fallbackOnly {
			continue
		}
		if e.score <= 0 {
			continue
		}
		out = append(out, entity.InvoiceMatch{
			InvoiceID:     key,
			InvoiceNumber: e.candidate.InvoiceNumber,
			CustomerName:  e.candidate.CustomerName,
			Amount:        e.candidate.Amount,
			DueDate:       e.candidate.DueDate,
			Subsidiary:    e.candidate.Subsidiary,
			Score:         e.score,
			Reasons:       e.reasons,
		})
	}
	return out
}
