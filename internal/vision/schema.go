package vision

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// BuildRecordJSONSchema returns the JSON-Schema constraint for structured
// field extraction responses, as a generic map so it can double as an OpenAI
// response-format schema and a local validator.
func BuildRecordJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"check_number":  map[string]any{"type": "string"},
			"amount":        map[string]any{"type": "number", "minimum": 0.0},
			"date":          map[string]any{"type": "string"},
			"payor_name":    map[string]any{"type": "string"},
			"payee_name":    map[string]any{"type": "string"},
			"customer_name": map[string]any{"type": "string"},
			"invoice_numbers": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
}

// ValidateExtractionJSON validates a structured extraction payload against
// the record schema before it is trusted downstream.
func ValidateExtractionJSON(data []byte) error {
	b, err := json.Marshal(BuildRecordJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// recordJSON is the wire shape of a structured extraction response.
type recordJSON struct {
	CheckNumber    string   `json:"check_number"`
	Amount         *float64 `json:"amount"`
	Date           string   `json:"date"`
	PayorName      string   `json:"payor_name"`
	PayeeName      string   `json:"payee_name"`
	CustomerName   string   `json:"customer_name"`
	InvoiceNumbers []string `json:"invoice_numbers"`
}

// DecodeRecordJSON validates a structured extraction payload and converts it
// into an ExtractedRecord. Empty strings map to unset fields.
func DecodeRecordJSON(data []byte) (entity.ExtractedRecord, error) {
	var rec entity.ExtractedRecord
	if err := ValidateExtractionJSON(data); err != nil {
		return rec, err
	}
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return rec, fmt.Errorf("unmarshal record: %w", err)
	}
	if w.CheckNumber != "" {
		rec.CheckNumber = entity.StrPtr(w.CheckNumber)
	}
	rec.Amount = w.Amount
	if w.Date != "" {
		rec.Date = entity.StrPtr(w.Date)
	}
	if w.PayorName != "" {
		rec.PayorName = entity.StrPtr(w.PayorName)
	}
	if w.PayeeName != "" {
		rec.PayeeName = entity.StrPtr(w.PayeeName)
	}
	if w.CustomerName != "" {
		rec.CustomerName = entity.StrPtr(w.CustomerName)
	}
	rec.InvoiceNumbers = w.InvoiceNumbers
	return rec, nil
}
