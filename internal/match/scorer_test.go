package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/ledger"
	"github.com/joseph-ayodele/remitmatch/internal/utils"
)

// fakeSearcher serves canned candidates with in-memory semantics close enough
// to the real index for scoring tests.
type fakeSearcher struct {
	invoices    []entity.InvoiceCandidate
	unavailable bool
}

func (f *fakeSearcher) SearchByNumber(_ context.Context, query string, limit int) ledger.SearchResult {
	if f.unavailable {
		return ledger.SearchResult{Status: ledger.StatusUnavailable, Err: errors.New("offline")}
	}
	var out []entity.InvoiceCandidate
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, inv := range f.invoices {
		num := strings.ToUpper(inv.InvoiceNumber)
		if num == q || strings.Contains(num, q) || strings.Contains(q, num) {
			out = append(out, inv)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return result(out)
}

func (f *fakeSearcher) SearchByCustomer(_ context.Context, name string, limit int) ledger.SearchResult {
	if f.unavailable {
		return ledger.SearchResult{Status: ledger.StatusUnavailable, Err: errors.New("offline")}
	}
	var out []entity.InvoiceCandidate
	for _, inv := range f.invoices {
		if utils.NameSimilarity(name, inv.CustomerName) > 0.4 {
			out = append(out, inv)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return result(out)
}

func (f *fakeSearcher) SearchByAmount(_ context.Context, amount, tolerance float64, limit int) ledger.SearchResult {
	if f.unavailable {
		return ledger.SearchResult{Status: ledger.StatusUnavailable, Err: errors.New("offline")}
	}
	var out []entity.InvoiceCandidate
	for _, inv := range f.invoices {
		if inv.Amount == 0 {
			continue
		}
		diff := inv.Amount - amount
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			out = append(out, inv)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return result(out)
}

func result(out []entity.InvoiceCandidate) ledger.SearchResult {
	if len(out) == 0 {
		return ledger.SearchResult{Status: ledger.StatusEmpty}
	}
	return ledger.SearchResult{Candidates: out, Status: ledger.StatusOK}
}

func TestScorerExactNumberAndAmount(t *testing.T) {
	searcher := &fakeSearcher{invoices: []entity.InvoiceCandidate{
		{InvoiceID: "a", InvoiceNumber: "4410", CustomerName: "Acme Industrial", Amount: 1199.50},
	}}
	s := NewScorer(searcher, ScoreConfig{}, nil)

	rec := entity.ExtractedRecord{
		InvoiceNumbers: []string{"4410"},
		Amount:         entity.FloatPtr(1199.50),
	}
	acc, pool := s.Score(context.Background(), rec)
	matches := s.Matches(acc)

	require.Len(t, matches, 1)
	assert.GreaterOrEqual(t, matches[0].Score, 250.0, "exact number plus exact amount")
	assert.GreaterOrEqual(t, len(matches[0].Reasons), 2)
	assert.Len(t, pool, 1)
}

func TestScorerExactNumberAloneBelowFloor(t *testing.T) {
	searcher := &fakeSearcher{invoices: []entity.InvoiceCandidate{
		{InvoiceID: "a", InvoiceNumber: "4410", CustomerName: "Acme Industrial", Amount: 1199.50},
	}}
	s := NewScorer(searcher, ScoreConfig{}, nil)

	// No amount extracted: the bare exact-number 100 sits at the floor.
	rec := entity.ExtractedRecord{InvoiceNumbers: []string{"4410"}}
	acc, _ := s.Score(context.Background(), rec)
	assert.Empty(t, s.Matches(acc))
}

func TestScorerPartialNumberWithExactAmount(t *testing.T) {
	searcher := &fakeSearcher{invoices: []entity.InvoiceCandidate{
		{InvoiceID: "a", InvoiceNumber: "0004410", CustomerName: "Acme Industrial", Amount: 315.25},
	}}
	s := NewScorer(searcher, ScoreConfig{}, nil)

	rec := entity.ExtractedRecord{
		InvoiceNumbers: []string{"4410"},
		Amount:         entity.FloatPtr(315.25),
	}
	acc, _ := s.Score(context.Background(), rec)
	matches := s.Matches(acc)

	// Partial 80 plus the amount-only 15 stays at 95: partial-number evidence
	// without customer corroboration never clears the floor.
	require.Len(t, matches, 0)
}

func TestScorerCustomerCorroboratesNumber(t *testing.T) {
	searcher := &fakeSearcher{invoices: []entity.InvoiceCandidate{
		{InvoiceID: "a", InvoiceNumber: "0004410", CustomerName: "Acme Industrial Supply", Amount: 315.25},
	}}
	s := NewScorer(searcher, ScoreConfig{}, nil)

	rec := entity.ExtractedRecord{
		InvoiceNumbers: []string{"4410"},
		Amount:         entity.FloatPtr(315.25),
		CustomerName:   entity.StrPtr("Acme Industrial Supply"),
	}
	acc, _ := s.Score(context.Background(), rec)
	matches := s.Matches(acc)

	require.Len(t, matches, 1)
	// Partial number (80) + customer pass (50 + 80 + 30) pushes well past the
	// floor, with reasons from both passes.
	assert.Greater(t, matches[0].Score, 200.0)
	assert.GreaterOrEqual(t, len(matches[0].Reasons), 3)
}

func TestScorerAmountOnlyFallback(t *testing.T) {
	searcher := &fakeSearcher{invoices: []entity.InvoiceCandidate{
		{InvoiceID: "a", InvoiceNumber: "7781", CustomerName: "Zenith Corp", Amount: 842.00},
	}}
	s := NewScorer(searcher, ScoreConfig{}, nil)

	// Nothing but an amount: the fallback surfaces a weak signal that would
	// never clear the floor, flagged by its score.
	rec := entity.ExtractedRecord{Amount: entity.FloatPtr(842.00)}
	acc, _ := s.Score(context.Background(), rec)
	matches := s.Matches(acc)

	require.Len(t, matches, 1)
	assert.Equal(t, 15.0, matches[0].Score)
	assert.Equal(t, "7781", matches[0].InvoiceNumber)
}

func TestScorerFallbackSkippedWhenPoolIsRich(t *testing.T) {
	invoices := make([]entity.InvoiceCandidate, 0, 6)
	for _, n := range []string{"4410", "4411", "4412", "4413", "4414"} {
		invoices = append(invoices, entity.InvoiceCandidate{
			InvoiceID: n, InvoiceNumber: n, CustomerName: "Acme Industrial", Amount: 99.0,
		})
	}
	invoices = append(invoices, entity.InvoiceCandidate{
		InvoiceID: "odd", InvoiceNumber: "9999", CustomerName: "Zenith Corp", Amount: 500.0,
	})
	searcher := &fakeSearcher{invoices: invoices}
	s := NewScorer(searcher, ScoreConfig{}, nil)

	rec := entity.ExtractedRecord{
		InvoiceNumbers: []string{"441"},
		Amount:         entity.FloatPtr(500.0),
	}
	acc, _ := s.Score(context.Background(), rec)

	for _, m := range acc.Matches(0) {
		assert.NotEqual(t, "9999", m.InvoiceNumber,
			"amount-only pass must not run once five candidates exist")
	}
}

func TestScorerLedgerUnavailable(t *testing.T) {
	s := NewScorer(&fakeSearcher{unavailable: true}, ScoreConfig{}, nil)

	rec := entity.ExtractedRecord{
		InvoiceNumbers: []string{"4410"},
		Amount:         entity.FloatPtr(100.0),
		CustomerName:   entity.StrPtr("Acme Industrial"),
	}
	acc, pool := s.Score(context.Background(), rec)

	assert.Empty(t, s.Matches(acc), "unavailable keys contribute zero evidence")
	assert.Empty(t, pool)
}
