package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/remitmatch/constants"
)

const checkText = `ACME INDUSTRIAL SUPPLY, LLC
Check Number: 0014607
Date: 03/15/2024
Payor Name: Acme Industrial Supply, LLC
Pay to the Order of: Global Manufacturing Inc
Amount: $4,250.00
Memo: INV-88121`

func TestParseCheck(t *testing.T) {
	p := NewParser(nil)
	rec := p.Parse(checkText, constants.KindCheck)

	require.NotNil(t, rec.CheckNumber)
	assert.Equal(t, "14607", *rec.CheckNumber)

	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 4250.00, *rec.Amount, 0.001)

	require.NotNil(t, rec.Date)
	assert.Equal(t, "03/15/2024", *rec.Date)

	require.NotNil(t, rec.PayorName)
	assert.Equal(t, "Acme Industrial Supply, LLC", *rec.PayorName)

	require.NotNil(t, rec.PayeeName)
	assert.Equal(t, "Global Manufacturing Inc", *rec.PayeeName)

	// Checks carry no explicit customer; the payor stands in.
	require.NotNil(t, rec.CustomerName)
	assert.Equal(t, *rec.PayorName, *rec.CustomerName)

	assert.Equal(t, []string{"INV-88121"}, rec.InvoiceNumbers)
	assert.Equal(t, checkText, rec.RawText)
}

func TestParseRemittance(t *testing.T) {
	p := NewParser(nil)
	text := `REMITTANCE ADVICE
Remitter: Northwind Traders
Date Presented: Jan 15, 2024
Invoice Number: 4410
Inv # 4411
Amount Paid: $1,199.50
Total Amount: $9,999.99`

	rec := p.Parse(text, constants.KindRemittance)

	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 1199.50, *rec.Amount, 0.001, "amount-paid label outranks generic amount")

	require.NotNil(t, rec.Date)
	assert.Equal(t, "01/15/2024", *rec.Date)

	require.NotNil(t, rec.PayorName)
	assert.Equal(t, "Northwind Traders", *rec.PayorName)

	assert.Equal(t, []string{"4410", "4411"}, rec.InvoiceNumbers)
}

func TestParseExtractionFailure(t *testing.T) {
	p := NewParser(nil)
	rec := p.Parse(constants.ErrorMarker+" page too blurry", constants.KindCheck)
	assert.False(t, rec.HasUsefulData())
}

func TestParseEmptyText(t *testing.T) {
	p := NewParser(nil)
	rec := p.Parse("", constants.KindLockboxPage)
	assert.False(t, rec.HasUsefulData())
}

func TestExtractAmountMajorityVote(t *testing.T) {
	p := NewParser(nil)
	text := `Amount: $100.00
Amount: $250.00
Amount: $250.00`
	rec := p.Parse(text, constants.KindCheck)
	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 250.00, *rec.Amount, 0.001)
}

func TestExtractAmountFallbackDiscardsCheckNumber(t *testing.T) {
	p := NewParser(nil)
	text := `Check # 500
Pay $500 against balance $125.75 due $125.75`
	rec := p.Parse(text, constants.KindCheck)

	require.NotNil(t, rec.CheckNumber)
	assert.Equal(t, "500", *rec.CheckNumber)
	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 125.75, *rec.Amount, 0.001, "dollar token equal to the check number is noise")
}

func TestExtractAmountRangeFilter(t *testing.T) {
	p := NewParser(nil)
	rec := p.Parse("Amount: $99,000,000.00", constants.KindCheck)
	assert.Nil(t, rec.Amount, "amounts beyond the plausible range are dropped")
}

func TestExtractInvoiceNumbersFiltering(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"dedupe case-insensitive",
			"Invoice Number: ab-1022\nRef AB-1022 enclosed",
			[]string{"ab-1022"},
		},
		{
			"stopwords and short tokens dropped",
			"invoice numbers for the following",
			nil,
		},
		{
			"alpha token without digits dropped",
			"Invoice Number: PENDING",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractInvoiceNumbers(tt.text))
		})
	}
}
