package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/remitmatch/constants"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/recon"
)

func TestReconciliationXLSX(t *testing.T) {
	results := []recon.GroupResult{
		{
			CheckNumber: entity.StrPtr("14607"),
			Pages:       []int{0, 1},
			Record: entity.ExtractedRecord{
				CustomerName: entity.StrPtr("Acme Industrial Supply"),
				Amount:       entity.FloatPtr(1199.50),
				Date:         entity.StrPtr("03/15/2024"),
			},
			Matches: []entity.InvoiceMatch{
				{InvoiceNumber: "4410", Amount: 1199.50, Score: 425, Reasons: []string{"Exact invoice number match: 4410"}},
			},
			Status: constants.StatusMatched,
		},
		{
			Pages:  []int{2},
			Record: entity.ExtractedRecord{Amount: entity.FloatPtr(55.00)},
			Status: constants.StatusNoMatch,
		},
	}

	data, err := NewService(nil).ReconciliationXLSX(results)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	const sheet = "Reconciliation"

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Check Number", header)

	check, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "14607", check)
	pages, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, "1,2", pages, "pages render 1-based")
	amount, _ := f.GetCellValue(sheet, "D2")
	assert.Equal(t, "1199.50", amount)
	status, _ := f.GetCellValue(sheet, "F2")
	assert.Equal(t, "MATCHED", status)
	invoice, _ := f.GetCellValue(sheet, "G2")
	assert.Equal(t, "4410", invoice)
	score, _ := f.GetCellValue(sheet, "I2")
	assert.Equal(t, "425", score)

	// Unmatched row carries no match columns.
	invoice2, _ := f.GetCellValue(sheet, "G3")
	assert.Equal(t, "", invoice2)
	status2, _ := f.GetCellValue(sheet, "F3")
	assert.Equal(t, "NO_MATCH", status2)
}
