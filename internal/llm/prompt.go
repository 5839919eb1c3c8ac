package llm

import (
	"encoding/json"
	"strings"
)

// BuildExtractionPrompt composes the instruction for one or more shipping
// bills. Each document's text is truncated to maxChars before being embedded,
// to stay within token limits. maxChars <= 0 disables truncation.
func BuildExtractionPrompt(docs []DocumentText, maxChars int) string {
	payload := make([]map[string]string, 0, len(docs))
	for _, d := range docs {
		payload = append(payload, map[string]string{
			"Source": d.Source,
			"Text":   truncateText(d.Text, maxChars),
		})
	}
	// Documents are embedded as JSON so filenames with quotes or newlines
	// cannot break the instruction.
	docJSON, _ := json.Marshal(payload)

	parts := []string{
		"Extract data from these Shipping Bills into a JSON ARRAY.",
		`Required Fields: "SB No", "SB date", "LUT", "IGST AMT", "Port code", "Source".`,
		"LUT: 'Y' if exported under LUT, 'N' if IGST paid.",
		"Return ONLY a JSON array with one object per document. No commentary, no code fences.",
		"Documents: " + string(docJSON),
	}
	return strings.Join(parts, "\n")
}

func truncateText(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
