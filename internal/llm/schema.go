package llm

import "github.com/joseph-ayodele/shipbill-extractor/constants"

// BuildBillJSONSchema returns a JSON-Schema (draft 2020-12 subset) for one
// shipping-bill record as a generic map. Validation is advisory: a record
// that decodes is never dropped, only flagged for review. Extra keys are
// allowed since unknown fields pass through normalization.
func BuildBillJSONSchema() map[string]any {
	props := map[string]any{
		constants.FieldSBNo:      map[string]any{"type": "string", "minLength": 1},
		constants.FieldSBDate:    map[string]any{"type": "string", "minLength": 1},
		constants.FieldLUT:       map[string]any{"type": "string", "pattern": `^[YN]$`},
		constants.FieldIGSTAmt:   map[string]any{"type": "string", "minLength": 1},
		constants.FieldPortCode:  map[string]any{"type": "string", "minLength": 1},
		constants.FieldSource:    map[string]any{"type": "string", "minLength": 1},
		constants.FieldInvoiceNo: map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
		"required":             constants.ExpectedFields,
	}
}
