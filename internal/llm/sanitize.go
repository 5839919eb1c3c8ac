package llm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/shipbill-extractor/constants"
)

// SanitizeRecord normalizes one decoded record before tabular assembly:
// - renames known key synonyms to canonical field names
// - coerces numeric values to strings (amounts keep two decimals)
// - trims strings and drops null/empty values
// - normalizes the LUT flag to "Y"/"N"
// - fills Source from the document when the model omitted it
// - defaults missing expected fields to the NOT FOUND sentinel
// Unknown keys are passed through untouched. The returned slice lists the
// adjustments made, for diagnostics.
func SanitizeRecord(rec FieldRecord, source string) (FieldRecord, []string) {
	out := make(FieldRecord, len(rec))
	var adjusted []string

	for k, v := range rec {
		key := k
		if canon, ok := constants.Canonicalize(k); ok {
			if canon != k {
				adjusted = append(adjusted, k+"->"+canon)
			}
			key = canon
		}
		// don't overwrite an already-present canonical value
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = v
	}

	for key, v := range out {
		switch t := v.(type) {
		case nil:
			delete(out, key)
			adjusted = append(adjusted, key+"(null)")
		case float64:
			if key == constants.FieldIGSTAmt {
				out[key] = fmt.Sprintf("%.2f", t)
			} else {
				out[key] = strconv.FormatFloat(t, 'f', -1, 64)
			}
		case bool:
			if key == constants.FieldLUT {
				if t {
					out[key] = "Y"
				} else {
					out[key] = "N"
				}
				adjusted = append(adjusted, key+"(bool)")
			} else {
				out[key] = strconv.FormatBool(t)
			}
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(out, key)
				adjusted = append(adjusted, key+"(empty)")
			} else {
				out[key] = s
			}
		}
	}

	if v, ok := out[constants.FieldLUT].(string); ok {
		switch strings.ToUpper(v) {
		case "Y", "YES", "LUT":
			out[constants.FieldLUT] = "Y"
		case "N", "NO", "IGST", "IGST PAID":
			out[constants.FieldLUT] = "N"
		default:
			out[constants.FieldLUT] = strings.ToUpper(v)
		}
	}

	if _, ok := out[constants.FieldSource]; !ok && source != "" {
		out[constants.FieldSource] = source
		adjusted = append(adjusted, constants.FieldSource+"(defaulted)")
	}

	for _, key := range constants.ExpectedFields {
		if _, ok := out[key]; !ok {
			out[key] = constants.NotFound
			adjusted = append(adjusted, key+"(not found)")
		}
	}

	return out, adjusted
}
