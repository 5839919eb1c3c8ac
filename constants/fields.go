package constants

import "strings"

// Canonical field keys, exactly as the model is asked to return them.
const (
	FieldSBNo      = "SB No"
	FieldSBDate    = "SB date"
	FieldLUT       = "LUT"
	FieldIGSTAmt   = "IGST AMT"
	FieldPortCode  = "Port code"
	FieldSource    = "Source"
	FieldInvoiceNo = "Invoice No"
)

// NotFound marks an expected field the model did not return.
const NotFound = "NOT FOUND"

// ExpectedFields is the fixed column set in export order.
var ExpectedFields = []string{
	FieldSBNo,
	FieldSBDate,
	FieldLUT,
	FieldIGSTAmt,
	FieldPortCode,
	FieldSource,
}

// DisplayLabels maps canonical keys to the column headers used in the workbook.
var DisplayLabels = map[string]string{
	FieldSBNo:      "SB No",
	FieldSBDate:    "SB date",
	FieldLUT:       `LUT "Y" or "N"`,
	FieldIGSTAmt:   `"IGST AMT"`,
	FieldPortCode:  `"Port code"`,
	FieldSource:    "Source",
	FieldInvoiceNo: "Invoice No",
}

// synonyms maps normalized key spellings the model tends to produce
// to their canonical field names.
var synonyms = map[string]string{
	"sb no":              FieldSBNo,
	"sb number":          FieldSBNo,
	"shipping bill no":   FieldSBNo,
	"sb date":            FieldSBDate,
	"shipping bill date": FieldSBDate,
	"lut":                FieldLUT,
	"lut status":         FieldLUT,
	"igst amt":           FieldIGSTAmt,
	"igst amount":        FieldIGSTAmt,
	"igst":               FieldIGSTAmt,
	"port code":          FieldPortCode,
	"source":             FieldSource,
	"source file":        FieldSource,
	"filename":           FieldSource,
	"invoice no":         FieldInvoiceNo,
	"invoice number":     FieldInvoiceNo,
}

// Canonicalize resolves a raw key from the model to a canonical field name.
// Matching is case-insensitive and tolerates underscores for spaces.
func Canonicalize(key string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, "_", " ")
	k = strings.Join(strings.Fields(k), " ")
	c, ok := synonyms[k]
	return c, ok
}

// DisplayLabel returns the export header for a key, falling back to the key
// itself for pass-through fields we don't rename.
func DisplayLabel(key string) string {
	if l, ok := DisplayLabels[key]; ok {
		return l
	}
	return key
}
