package parse

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/remitmatch/constants"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/utils"
)

// Amounts outside this range are treated as extraction noise (check numbers,
// account fragments, merged-line artifacts).
const (
	MinAmount = 0.01
	MaxAmount = 10_000_000.0
)

// minNameLen: names at or below this length are discarded as noise.
const minNameLen = 3

// Parser turns a page's raw transcribed text into an ExtractedRecord.
// Pure text -> struct; it never fails on malformed text — the worst case is a
// record with every field unset.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse extracts structured fields from raw text using the rule set for the
// given document kind.
func (p *Parser) Parse(rawText string, kind constants.DocumentKind) entity.ExtractedRecord {
	rec := entity.ExtractedRecord{RawText: rawText}
	text := NormalizeText(rawText)
	if text == "" || strings.HasPrefix(rawText, constants.ErrorMarker) {
		return rec
	}
	rules := rulesFor(kind)

	if raw, ok := FindFirst(checkNumberRules, text); ok {
		if n := NormalizeCheckNumber(raw); n != "" {
			rec.CheckNumber = &n
		}
	}

	if amount, ok := p.extractAmount(text, rules.amount, rec.CheckNumber); ok {
		rec.Amount = &amount
	}

	if raw, ok := FindFirst(rules.date, text); ok {
		d := NormalizeDate(raw)
		rec.Date = &d
	}

	if name, ok := extractName(payorNameRules, text); ok {
		rec.PayorName = &name
	}
	if name, ok := extractName(payeeNameRules, text); ok {
		rec.PayeeName = &name
	}
	// Remittances name the paying customer directly; checks only carry the
	// payor, which doubles as the customer.
	if rec.CustomerName == nil && rec.PayorName != nil {
		rec.CustomerName = rec.PayorName
	}

	rec.InvoiceNumbers = extractInvoiceNumbers(text)

	p.logger.Debug("parse.fields",
		"kind", string(kind),
		"check_number", rec.CheckNumber != nil,
		"amount", rec.Amount != nil,
		"invoice_numbers", len(rec.InvoiceNumbers),
		"customer", rec.CustomerName != nil,
	)
	return rec
}

// extractAmount prefers explicitly labeled amounts; among those it takes the
// most frequently mentioned value (transcriptions tend to restate the amount,
// so a majority vote beats first-hit). With no labeled amount it falls back to
// dollar-sign tokens, discarding any value that collides with the extracted
// check number.
func (p *Parser) extractAmount(text string, rules []Rule, checkNumber *string) (float64, bool) {
	labeled := parseAmounts(FindAll(rules, text))
	if len(labeled) > 0 {
		return majority(labeled), true
	}

	fallback := parseAmounts(FindAll([]Rule{dollarAmountRule}, text))
	if checkNumber != nil {
		if checkVal, err := strconv.ParseFloat(*checkNumber, 64); err == nil {
			kept := fallback[:0]
			for _, a := range fallback {
				if a != checkVal {
					kept = append(kept, a)
				}
			}
			fallback = kept
		}
	}
	if len(fallback) == 0 {
		return 0, false
	}
	return majority(fallback), true
}

func parseAmounts(tokens []string) []float64 {
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		cleaned := strings.NewReplacer(",", "", "$", "", "*", "", " ", "").Replace(tok)
		a, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || a < MinAmount || a > MaxAmount {
			continue
		}
		out = append(out, a)
	}
	return out
}

// majority returns the most frequent value; ties break toward the value seen
// first, keeping the result deterministic.
func majority(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	best := values[0]
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func extractName(rules []Rule, text string) (string, bool) {
	raw, ok := FindFirst(rules, text)
	if !ok {
		return "", false
	}
	name := utils.CollapseWhitespace(strings.Trim(raw, " .,:-"))
	if len(name) <= minNameLen {
		return "", false
	}
	return name, true
}

// extractInvoiceNumbers runs the invoice-number pattern family, then
// deduplicates case-insensitively and filters obvious non-numbers: short
// tokens, stopwords, and tokens with no digit or dash.
func extractInvoiceNumbers(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range FindAll(invoiceNumberRules, text) {
		upper := strings.ToUpper(strings.TrimSpace(tok))
		if len(upper) < 3 || strings.HasPrefix(upper, "-") {
			continue
		}
		if _, stop := invoiceStopwords[upper]; stop {
			continue
		}
		if !strings.ContainsAny(upper, "0123456789-") {
			continue
		}
		if _, dup := seen[upper]; dup {
			continue
		}
		seen[upper] = struct{}{}
		out = append(out, tok)
	}
	return out
}
