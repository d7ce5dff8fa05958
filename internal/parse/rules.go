package parse

import (
	"regexp"

	"github.com/joseph-ayodele/remitmatch/constants"
)

// Rule is one prioritized extraction attempt for a single field: a named
// regexp with exactly one capture group. Rules are tried in declaration
// order; for single-valued fields the first hit wins.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// FindFirst returns the first capture of the first matching rule.
func FindFirst(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		if m := r.Pattern.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// FindAll returns every capture from every rule, in rule order.
func FindAll(rules []Rule, text string) []string {
	var out []string
	for _, r := range rules {
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			out = append(out, m[1])
		}
	}
	return out
}

const decimalToken = `(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`

// labeledAmount builds a rule matching "<label>: $ ***1,234.56*" style
// fields, tolerating currency symbols and asterisk fill artifacts.
func labeledAmount(name, label string) Rule {
	return Rule{
		Name:    name,
		Pattern: regexp.MustCompile(`(?i)` + label + `\s*:?\s*\$?\s*\**\s*` + decimalToken + `\s*\**`),
	}
}

var checkNumberRules = []Rule{
	{"check-number-label", regexp.MustCompile(`(?i)check\s+number\s*:?\s*#?\s*(\d+)`)},
	{"check-hash", regexp.MustCompile(`(?i)check\s*#\s*:?\s*(\d+)`)},
	{"check-bare", regexp.MustCompile(`(?i)\bcheck\s*:?\s+(\d+)`)},
	{"ck-hash", regexp.MustCompile(`(?i)\bck\s*#?\s*:?\s*(\d+)`)},
}

var checkAmountRules = []Rule{
	labeledAmount("amount-numerical", `amount\s*\(numerical\)`),
	labeledAmount("amount-is", `amount\s+is`),
	labeledAmount("numerical", `numerical`),
	labeledAmount("handwritten", `handwritten`),
	labeledAmount("pay-amount", `pay\s+amount`),
	labeledAmount("amount", `amount`),
}

var remittanceAmountRules = []Rule{
	labeledAmount("amount-paid", `amount\s+paid`),
	labeledAmount("payment-amount", `payment\s+amount`),
	labeledAmount("amount-numerical", `amount\s*\(numerical\)`),
	labeledAmount("numerical", `numerical`),
	labeledAmount("handwritten", `handwritten`),
	labeledAmount("amount", `amount`),
}

var dollarAmountRule = Rule{
	Name:    "dollar-token",
	Pattern: regexp.MustCompile(`\$\s*` + decimalToken),
}

const dateToken = `(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\.?,?\s+\d{2,4})`

var checkDateRules = []Rule{
	{"date-label", regexp.MustCompile(`(?i)date\s*:?\s*` + dateToken)},
	{"date-bare", regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
}

var remittanceDateRules = []Rule{
	{"date-presented", regexp.MustCompile(`(?i)date\s+presented\s*:?\s*` + dateToken)},
	{"date-label", regexp.MustCompile(`(?i)date\s*:?\s*` + dateToken)},
	{"date-bare", regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
}

var payorNameRules = []Rule{
	{"payor-label", regexp.MustCompile(`(?i)payor\s+name\s*:?\s*([^\n]+)`)},
	{"payor-short", regexp.MustCompile(`(?i)\bpayor\s*:?\s*([^\n]+)`)},
	{"remitter", regexp.MustCompile(`(?i)\bremitter\s*:?\s*([^\n]+)`)},
}

var payeeNameRules = []Rule{
	{"payee-label", regexp.MustCompile(`(?i)payee\s+name\s*:?\s*([^\n]+)`)},
	{"pay-to-order", regexp.MustCompile(`(?i)pay\s+to\s+the\s+order\s+of\s*:?\s*([^\n]+)`)},
}

var invoiceNumberRules = []Rule{
	{"invoice-number-label", regexp.MustCompile(`(?i)invoice\s+number\s*:?\s*([A-Za-z0-9][A-Za-z0-9\-]+)`)},
	{"inv-hash", regexp.MustCompile(`(?i)\binv(?:oice)?\s*#?\s*:?\s*([A-Za-z0-9][A-Za-z0-9\-]+)`)},
	{"for-inv", regexp.MustCompile(`(?i)\bfor\s+inv\s*#?\s*:?\s*([A-Za-z0-9][A-Za-z0-9\-]+)`)},
	{"dashed-token", regexp.MustCompile(`\b([A-Z]{2,}-[A-Z0-9][A-Z0-9\-]+)\b`)},
}

// invoiceStopwords are tokens the invoice-number patterns can capture that
// are never real invoice numbers.
var invoiceStopwords = map[string]struct{}{
	"S": {}, "NUMBERS": {}, "NUMBER": {}, "INV": {}, "INVOICE": {},
	"FOR": {}, "THE": {}, "AND": {}, "OR": {},
}

// ruleSet bundles the per-document-kind rule lists.
type ruleSet struct {
	amount []Rule
	date   []Rule
}

func rulesFor(kind constants.DocumentKind) ruleSet {
	switch kind {
	case constants.KindRemittance:
		return ruleSet{amount: remittanceAmountRules, date: remittanceDateRules}
	default:
		// checks and lockbox pages share the check rule set
		return ruleSet{amount: checkAmountRules, date: checkDateRules}
	}
}
