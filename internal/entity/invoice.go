package entity

import (
	"fmt"
	"strings"
)

// InvoiceCandidate is one open-invoice line item returned by a ledger search.
// Read-only to the matching core; the ledger adapter owns construction.
type InvoiceCandidate struct {
	InvoiceID     string
	InvoiceNumber string
	CustomerName  string
	Amount        float64 // remaining/open balance
	DueDate       string
	Subsidiary    string
	Memo          string
	Status        string
	DateCreated   string
	Account       string
}

// IdentityKey distinguishes invoice line items that share a raw invoice
// number. A ledger can legitimately contain multiple open rows with the same
// number, so the key folds in amount, customer, and memo.
func (c InvoiceCandidate) IdentityKey() string {
	return strings.Join([]string{
		strings.ToUpper(strings.TrimSpace(c.InvoiceNumber)),
		fmt.Sprintf("%.2f", c.Amount),
		strings.ToUpper(strings.TrimSpace(c.CustomerName)),
		strings.TrimSpace(c.Memo),
	}, "|")
}

// InvoiceMatch is a scored, finalized match. For multi-invoice combinations
// InvoiceNumber is the "+"-joined member numbers and InvoiceID the "|"-joined
// composite key. Never mutated after conversion from the accumulator.
type InvoiceMatch struct {
	InvoiceID     string
	InvoiceNumber string
	CustomerName  string
	Amount        float64
	DueDate       string
	Subsidiary    string
	Score         float64
	Reasons       []string
}
