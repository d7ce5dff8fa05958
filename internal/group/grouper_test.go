package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

func page(checkNumber string, invoices ...string) entity.ExtractedRecord {
	rec := entity.ExtractedRecord{InvoiceNumbers: invoices}
	if checkNumber != "" {
		rec.CheckNumber = entity.StrPtr(checkNumber)
	}
	return rec
}

func TestGroupLockboxBatch(t *testing.T) {
	g := NewGrouper(Config{}, nil)

	// Classic lockbox layout: check stub, its remittance detail, next check
	// stub, its detail.
	pages := []entity.ExtractedRecord{
		page("500"),
		page("", "INV-1", "INV-2"),
		page("501"),
		page("", "INV-3"),
	}

	groups := g.Group(pages)
	require.Len(t, groups, 2)

	require.NotNil(t, groups[0].CheckNumber)
	assert.Equal(t, "500", *groups[0].CheckNumber)
	assert.Equal(t, []int{0, 1}, groups[0].Pages)
	assert.Equal(t, []string{"INV-1", "INV-2"}, groups[0].Record.InvoiceNumbers)

	require.NotNil(t, groups[1].CheckNumber)
	assert.Equal(t, "501", *groups[1].CheckNumber)
	assert.Equal(t, []int{2, 3}, groups[1].Pages)
	assert.Equal(t, []string{"INV-3"}, groups[1].Record.InvoiceNumbers)
}

func TestGroupMergesSameCheckNumber(t *testing.T) {
	g := NewGrouper(Config{}, nil)

	pages := []entity.ExtractedRecord{
		page("0014607", "INV-1"),
		page("14607", "INV-2"), // same check after normalization
	}

	groups := g.Group(pages)
	require.Len(t, groups, 1)
	assert.Equal(t, "14607", *groups[0].CheckNumber)
	assert.Equal(t, []int{0, 1}, groups[0].Pages)
	assert.Equal(t, []string{"INV-1", "INV-2"}, groups[0].Record.InvoiceNumbers)
}

func TestGroupDropsUselessPages(t *testing.T) {
	g := NewGrouper(Config{}, nil)

	pages := []entity.ExtractedRecord{
		{RawText: "blank separator sheet"},
		page("500"),
		{},
	}

	groups := g.Group(pages)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{1}, groups[0].Pages)
}

func TestGroupLookBackWindow(t *testing.T) {
	g := NewGrouper(Config{LookBack: 2}, nil)

	// Numberless page 3 is beyond the window from the anchor at page 0, so it
	// opens a holding group instead of joining check 500.
	pages := []entity.ExtractedRecord{
		page("500"),
		{},
		{},
		page("", "INV-9"),
	}

	groups := g.Group(pages)
	require.Len(t, groups, 2)
	assert.Equal(t, []int{0}, groups[0].Pages)
	assert.Nil(t, groups[1].CheckNumber)
	assert.Equal(t, []int{3}, groups[1].Pages)
}

func TestGroupNumberlessRunStaysTogether(t *testing.T) {
	g := NewGrouper(Config{LookBack: 1}, nil)

	// With no anchored group, consecutive numberless pages chain into one
	// holding group because the anchor trails the last attached page.
	pages := []entity.ExtractedRecord{
		page("", "INV-1"),
		page("", "INV-2"),
		page("", "INV-3"),
	}

	groups := g.Group(pages)
	require.Len(t, groups, 1)
	assert.Nil(t, groups[0].CheckNumber)
	assert.Equal(t, []int{0, 1, 2}, groups[0].Pages)
	assert.Equal(t, []string{"INV-1", "INV-2", "INV-3"}, groups[0].Record.InvoiceNumbers)
}

func TestGroupOrderPreserved(t *testing.T) {
	g := NewGrouper(Config{}, nil)

	pages := []entity.ExtractedRecord{
		page("900"),
		page("100"),
		page("550"),
	}

	groups := g.Group(pages)
	require.Len(t, groups, 3)
	assert.Equal(t, "900", *groups[0].CheckNumber)
	assert.Equal(t, "100", *groups[1].CheckNumber)
	assert.Equal(t, "550", *groups[2].CheckNumber)
}
