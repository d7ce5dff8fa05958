package match

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/ledger"
	"github.com/joseph-ayodele/remitmatch/internal/utils"
)

// ScoreConfig holds the scorer's limits and thresholds. Zero values fall back
// to the defaults below.
type ScoreConfig struct {
	NumberLimit     int     // candidates per invoice-number query
	CustomerLimit   int     // candidates per customer query
	AmountLimit     int     // candidates for the amount-only fallback
	FallbackBelow   int     // run the amount-only pass when fewer candidates found
	ScoreFloor      float64 // matches at or below this are discarded as noise
	AmountTolerance float64 // "exact" amount equality granularity
}

func (c ScoreConfig) withDefaults() ScoreConfig {
	if c.NumberLimit <= 0 {
		c.NumberLimit = 20
	}
	if c.CustomerLimit <= 0 {
		c.CustomerLimit = 50
	}
	if c.AmountLimit <= 0 {
		c.AmountLimit = 20
	}
	if c.FallbackBelow <= 0 {
		c.FallbackBelow = 5
	}
	if c.ScoreFloor <= 0 {
		c.ScoreFloor = 100
	}
	if c.AmountTolerance <= 0 {
		c.AmountTolerance = 0.01
	}
	return c
}

// Scorer runs the three evidence passes (invoice number, customer name,
// amount-only fallback) against the ledger and accumulates additive scores
// per candidate identity.
type Scorer struct {
	ledger ledger.Searcher
	cfg    ScoreConfig
	logger *slog.Logger
}

func NewScorer(searcher ledger.Searcher, cfg ScoreConfig, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{ledger: searcher, cfg: cfg.withDefaults(), logger: logger}
}

// Score runs every applicable pass for one record. It returns the evidence
// accumulator plus the raw number-search candidate pool, which the
// combination matcher reuses. Unavailable search keys contribute zero
// evidence; matching proceeds with whatever keys succeeded.
func (s *Scorer) Score(ctx context.Context, rec entity.ExtractedRecord) (*Accumulator, []entity.InvoiceCandidate) {
	acc := NewAccumulator()
	var numberPool []entity.InvoiceCandidate

	for _, token := range rec.InvoiceNumbers {
		res := s.ledger.SearchByNumber(ctx, token, s.cfg.NumberLimit)
		if res.Status == ledger.StatusUnavailable {
			s.logger.Warn("match.search.number_unavailable", "token", token, "error", res.Err)
			continue
		}
		numberPool = append(numberPool, res.Candidates...)
		for _, inv := range res.Candidates {
			s.scoreNumberHit(acc, rec, token, inv)
		}
	}

	if name := rec.BestCustomerName(); name != "" {
		res := s.ledger.SearchByCustomer(ctx, name, s.cfg.CustomerLimit)
		if res.Status == ledger.StatusUnavailable {
			s.logger.Warn("match.search.customer_unavailable", "error", res.Err)
		}
		for _, inv := range res.Candidates {
			s.scoreCustomerHit(acc, rec, name, inv)
		}
	}

	// Last resort: amount-only, and only when the stronger keys left us
	// with a thin candidate set.
	if rec.Amount != nil && acc.Len() < s.cfg.FallbackBelow {
		res := s.ledger.SearchByAmount(ctx, *rec.Amount, s.cfg.AmountTolerance, s.cfg.AmountLimit)
		if res.Status == ledger.StatusUnavailable {
			s.logger.Warn("match.search.amount_unavailable", "error", res.Err)
		}
		for _, inv := range res.Candidates {
			acc.AddFallback(inv, 15, fmt.Sprintf("Amount-only match: $%.2f", inv.Amount))
		}
	}

	return acc, numberPool
}

// Matches finalizes the accumulated evidence against the configured floor.
func (s *Scorer) Matches(acc *Accumulator) []entity.InvoiceMatch {
	return acc.Matches(s.cfg.ScoreFloor)
}

func (s *Scorer) scoreNumberHit(acc *Accumulator, rec entity.ExtractedRecord, token string, inv entity.InvoiceCandidate) {
	tokenUpper := strings.ToUpper(strings.TrimSpace(token))
	numUpper := strings.ToUpper(inv.InvoiceNumber)

	if numUpper == tokenUpper {
		acc.Add(inv, 100, fmt.Sprintf("Exact invoice number match: %s", token))
		if rec.Amount != nil && inv.Amount != 0 {
			diff := math.Abs(*rec.Amount - inv.Amount)
			switch {
			case diff <= 0.01:
				acc.Add(inv, 150, fmt.Sprintf("Exact amount match: $%.2f", inv.Amount))
			case diff < 1.0:
				acc.Add(inv, 100, fmt.Sprintf("Amount match (within $1): $%.2f", inv.Amount))
			case diff < 10.0:
				acc.Add(inv, 50, fmt.Sprintf("Amount match (within $10): $%.2f", inv.Amount))
			}
		}
		return
	}

	// Anything else the search surfaced (containment, normalized or numeric
	// equality) counts as a partial match: worth much less unless the amount
	// corroborates it.
	if rec.Amount == nil || inv.Amount == 0 {
		acc.Add(inv, 30, fmt.Sprintf("Partial invoice number match: %s (no amount to verify)", token))
		return
	}
	diff := math.Abs(*rec.Amount - inv.Amount)
	switch {
	case diff <= 0.01:
		acc.Add(inv, 80,
			fmt.Sprintf("Partial invoice number match: %s", token),
			fmt.Sprintf("Exact amount match: $%.2f", inv.Amount))
	case diff < 10.0:
		acc.Add(inv, 50,
			fmt.Sprintf("Partial invoice number match: %s", token),
			fmt.Sprintf("Amount match (within $10): $%.2f", inv.Amount))
	default:
		acc.Add(inv, 20, fmt.Sprintf("Partial invoice number match: %s (amount mismatch: $%.2f)", token, diff))
	}
}

func (s *Scorer) scoreCustomerHit(acc *Accumulator, rec entity.ExtractedRecord, name string, inv entity.InvoiceCandidate) {
	sim := utils.NameSimilarity(name, inv.CustomerName)

	points := sim * 50
	var reasons []string
	if sim > 0.7 {
		reasons = append(reasons, fmt.Sprintf("Customer name match: %s (similarity: %.2f)", inv.CustomerName, sim))
	}

	if rec.Amount != nil && inv.Amount != 0 {
		diff := math.Abs(*rec.Amount - inv.Amount)
		var bonus float64
		switch {
		case diff <= 0.01:
			bonus = 80
		case diff <= 1.0:
			bonus = 60
		case diff <= 10.0:
			bonus = 40
		case diff <= 100.0:
			bonus = 25
		}
		if bonus > 0 {
			points += bonus
			reasons = append(reasons, fmt.Sprintf("Amount match: $%.2f (diff: $%.2f)", inv.Amount, diff))
		}
		if sim > 0.9 && diff <= 0.01 {
			points += 30
			reasons = append(reasons, "Strong customer + exact amount corroboration")
		}
	}

	acc.Add(inv, points, reasons...)
}
