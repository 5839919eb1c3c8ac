package llm

import "context"

// FieldRecord is one normalized result row extracted for one source document.
// The model guarantees neither key presence nor spelling nor types, so the
// record stays a mapping with explicit presence handling; SanitizeRecord
// canonicalizes keys and defaults missing expected fields.
type FieldRecord map[string]any

// ResultSet is the ordered concatenation of FieldRecords across a batch.
// Row order follows upload order; there is no identity beyond position.
type ResultSet []FieldRecord

// DocumentText pairs a source filename with its extracted text.
type DocumentText struct {
	Source string
	Text   string
}

// Generator is the external text-generation capability (Stage 2).
// Calls are synchronous, non-idempotent, and may incur billable quota.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
