package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

func comboPool() []entity.InvoiceCandidate {
	return []entity.InvoiceCandidate{
		{InvoiceID: "a", InvoiceNumber: "INV-1001", CustomerName: "Acme Industrial", Amount: 750.00},
		{InvoiceID: "b", InvoiceNumber: "INV-1002", CustomerName: "Acme Industrial", Amount: 750.00},
		{InvoiceID: "c", InvoiceNumber: "INV-1003", CustomerName: "Acme Industrial", Amount: 400.00},
	}
}

func TestComboFindsExactPair(t *testing.T) {
	m := NewComboMatcher(ComboConfig{}, nil)

	rec := entity.ExtractedRecord{
		Amount:         entity.FloatPtr(1500.00),
		InvoiceNumbers: []string{"INV-1001", "INV-1002"},
		CustomerName:   entity.StrPtr("Acme Industrial"),
	}
	combos := m.Find(rec, comboPool())

	require.Len(t, combos, 1)
	got := combos[0]
	assert.Equal(t, "INV-1001+INV-1002", got.InvoiceNumber)
	assert.InDelta(t, 1500.00, got.Amount, 0.001)
	// Base 200 + exact total 100 + all-customer 50, no size penalty for a pair.
	assert.InDelta(t, 350.0, got.Score, 0.001)
	assert.Contains(t, got.InvoiceID, "|")
	assert.GreaterOrEqual(t, len(got.Reasons), 3)
}

func TestComboRequiresTokenCoverage(t *testing.T) {
	m := NewComboMatcher(ComboConfig{}, nil)

	// INV-9999 is on the stub but not in any candidate subset, so no
	// combination may claim to explain the payment.
	rec := entity.ExtractedRecord{
		Amount:         entity.FloatPtr(1500.00),
		InvoiceNumbers: []string{"INV-1001", "INV-9999"},
	}
	assert.Empty(t, m.Find(rec, comboPool()))
}

func TestComboRequiresAmountAndTokens(t *testing.T) {
	m := NewComboMatcher(ComboConfig{}, nil)

	noAmount := entity.ExtractedRecord{InvoiceNumbers: []string{"INV-1001"}}
	assert.Empty(t, m.Find(noAmount, comboPool()))

	noTokens := entity.ExtractedRecord{Amount: entity.FloatPtr(1500.00)}
	assert.Empty(t, m.Find(noTokens, comboPool()))
}

func TestComboSumMustHitTarget(t *testing.T) {
	m := NewComboMatcher(ComboConfig{}, nil)

	rec := entity.ExtractedRecord{
		Amount:         entity.FloatPtr(1234.56),
		InvoiceNumbers: []string{"INV-1001", "INV-1002"},
	}
	assert.Empty(t, m.Find(rec, comboPool()))
}

func TestComboCustomerFilter(t *testing.T) {
	m := NewComboMatcher(ComboConfig{}, nil)

	pool := append(comboPool(), entity.InvoiceCandidate{
		InvoiceID: "z", InvoiceNumber: "INV-2001", CustomerName: "Zenith Corp", Amount: 750.00,
	})
	// The named customer excludes Zenith rows from the pool entirely, so the
	// only qualifying pair is the two Acme 750s.
	rec := entity.ExtractedRecord{
		Amount:         entity.FloatPtr(1500.00),
		InvoiceNumbers: []string{"INV-100"},
		CustomerName:   entity.StrPtr("Acme Industrial"),
	}
	combos := m.Find(rec, pool)
	require.Len(t, combos, 1)
	assert.Equal(t, "INV-1001+INV-1002", combos[0].InvoiceNumber)
}

func TestComboTriplePenalty(t *testing.T) {
	m := NewComboMatcher(ComboConfig{}, nil)

	rec := entity.ExtractedRecord{
		Amount:         entity.FloatPtr(1900.00),
		InvoiceNumbers: []string{"INV-100"},
		CustomerName:   entity.StrPtr("Acme Industrial"),
	}
	combos := m.Find(rec, comboPool())
	require.Len(t, combos, 1)
	assert.Equal(t, "INV-1001+INV-1002+INV-1003", combos[0].InvoiceNumber)
	// Base 200 + exact 100 + all-customer 50 - 10 for the third member.
	assert.InDelta(t, 340.0, combos[0].Score, 0.001)
}

func TestComboDeduplicatesPool(t *testing.T) {
	m := NewComboMatcher(ComboConfig{}, nil)

	// The same invoice surfacing from two number queries must not pair with
	// itself to fake the total.
	dup := entity.InvoiceCandidate{InvoiceID: "a", InvoiceNumber: "INV-1001", CustomerName: "Acme Industrial", Amount: 750.00}
	rec := entity.ExtractedRecord{
		Amount:         entity.FloatPtr(1500.00),
		InvoiceNumbers: []string{"INV-1001"},
	}
	assert.Empty(t, m.Find(rec, []entity.InvoiceCandidate{dup, dup}))
}
