package entity

import "strings"

// ExtractedRecord is the structured data parsed from one page (or one
// document) of transcribed text. Missing fields stay nil rather than
// defaulting to empty strings, so sparse extractions are distinguishable
// from extracted-but-empty data. Records are treated as immutable once
// produced; combining sources goes through Merged.
type ExtractedRecord struct {
	CheckNumber    *string
	Amount         *float64
	Date           *string
	PayorName      *string
	PayeeName      *string
	CustomerName   *string
	InvoiceNumbers []string
	RawText        string
	Fields         map[string]string
}

// HasUsefulData reports whether any matching-relevant field was extracted.
// Pages without useful data are dropped before grouping.
func (r ExtractedRecord) HasUsefulData() bool {
	return r.CheckNumber != nil ||
		r.Amount != nil ||
		len(r.InvoiceNumbers) > 0 ||
		r.PayorName != nil ||
		r.PayeeName != nil ||
		r.CustomerName != nil
}

// BestCustomerName returns the customer name, falling back to the payor name.
func (r ExtractedRecord) BestCustomerName() string {
	if r.CustomerName != nil {
		return *r.CustomerName
	}
	if r.PayorName != nil {
		return *r.PayorName
	}
	return ""
}

// Merged combines two records into a new one. Scalar fields follow
// first-non-nil-wins with the receiver taking precedence, invoice numbers are
// unioned (case-insensitive, receiver order first), and raw text is
// concatenated. Neither input is mutated.
func (r ExtractedRecord) Merged(other ExtractedRecord) ExtractedRecord {
	out := ExtractedRecord{
		CheckNumber:  firstNonNil(r.CheckNumber, other.CheckNumber),
		Amount:       firstNonNilFloat(r.Amount, other.Amount),
		Date:         firstNonNil(r.Date, other.Date),
		PayorName:    firstNonNil(r.PayorName, other.PayorName),
		PayeeName:    firstNonNil(r.PayeeName, other.PayeeName),
		CustomerName: firstNonNil(r.CustomerName, other.CustomerName),
	}

	out.InvoiceNumbers = unionInvoiceNumbers(r.InvoiceNumbers, other.InvoiceNumbers)

	switch {
	case r.RawText == "":
		out.RawText = other.RawText
	case other.RawText == "":
		out.RawText = r.RawText
	default:
		out.RawText = r.RawText + "\n\n" + other.RawText
	}

	if len(r.Fields) > 0 || len(other.Fields) > 0 {
		out.Fields = make(map[string]string, len(r.Fields)+len(other.Fields))
		for k, v := range other.Fields {
			out.Fields[k] = v
		}
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

func unionInvoiceNumbers(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		key := strings.ToUpper(strings.TrimSpace(s))
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	for _, s := range b {
		key := strings.ToUpper(strings.TrimSpace(s))
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstNonNil(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func firstNonNilFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

// StrPtr is a convenience for building records with optional fields.
func StrPtr(s string) *string { return &s }

// FloatPtr is a convenience for building records with optional amounts.
func FloatPtr(f float64) *float64 { return &f }
