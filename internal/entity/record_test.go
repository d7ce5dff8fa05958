package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUsefulData(t *testing.T) {
	assert.False(t, ExtractedRecord{}.HasUsefulData())
	assert.False(t, ExtractedRecord{RawText: "noise only"}.HasUsefulData())
	assert.True(t, ExtractedRecord{CheckNumber: StrPtr("14607")}.HasUsefulData())
	assert.True(t, ExtractedRecord{Amount: FloatPtr(12.50)}.HasUsefulData())
	assert.True(t, ExtractedRecord{InvoiceNumbers: []string{"4410"}}.HasUsefulData())
	assert.True(t, ExtractedRecord{PayorName: StrPtr("Acme")}.HasUsefulData())
}

func TestBestCustomerName(t *testing.T) {
	assert.Equal(t, "", ExtractedRecord{}.BestCustomerName())
	assert.Equal(t, "Acme", ExtractedRecord{PayorName: StrPtr("Acme")}.BestCustomerName())
	assert.Equal(t, "Northwind",
		ExtractedRecord{CustomerName: StrPtr("Northwind"), PayorName: StrPtr("Acme")}.BestCustomerName())
}

func TestMergedReceiverPrecedence(t *testing.T) {
	a := ExtractedRecord{
		CheckNumber:    StrPtr("500"),
		Amount:         FloatPtr(100.00),
		InvoiceNumbers: []string{"INV-1", "inv-2"},
		RawText:        "page one",
	}
	b := ExtractedRecord{
		CheckNumber:    StrPtr("999"),
		Date:           StrPtr("01/15/2024"),
		CustomerName:   StrPtr("Northwind"),
		InvoiceNumbers: []string{"INV-2", "INV-3"},
		RawText:        "page two",
	}

	m := a.Merged(b)

	assert.Equal(t, "500", *m.CheckNumber, "receiver value wins")
	assert.InDelta(t, 100.00, *m.Amount, 0.001)
	assert.Equal(t, "01/15/2024", *m.Date, "missing fields filled from the other record")
	assert.Equal(t, "Northwind", *m.CustomerName)
	assert.Equal(t, []string{"INV-1", "inv-2", "INV-3"}, m.InvoiceNumbers,
		"union is case-insensitive with receiver order first")
	assert.Equal(t, "page one\n\npage two", m.RawText)

	// inputs untouched
	assert.Equal(t, []string{"INV-1", "inv-2"}, a.InvoiceNumbers)
	assert.Nil(t, a.Date)
}

func TestMergedEmptySides(t *testing.T) {
	rec := ExtractedRecord{Amount: FloatPtr(42.00), RawText: "body"}

	m := ExtractedRecord{}.Merged(rec)
	assert.InDelta(t, 42.00, *m.Amount, 0.001)
	assert.Equal(t, "body", m.RawText)

	m = rec.Merged(ExtractedRecord{})
	assert.Equal(t, "body", m.RawText)
	assert.Nil(t, m.InvoiceNumbers)
}
