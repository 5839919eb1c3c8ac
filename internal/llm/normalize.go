package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
)

var (
	// Greedy multi-line span from the first '[' to the last ']'. Tolerates
	// leading prose and trailing commentary around the array.
	reBracketSpan = regexp.MustCompile(`(?s)\[.*\]`)
	reLangTag     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// NormalizeReply converts an untrusted model reply into a ResultSet.
//
// Order of attempts: strip code fences, then strict-parse the whole cleaned
// text; on failure, decode the greedy bracket span; on failure again, decode
// the first balanced array in the text. The last step is what resolves a
// reply containing two separate top-level arrays: the first one wins, never
// a merged or partial result.
//
// A reply with no array-shaped span returns an empty ResultSet and an error
// wrapping common.ErrNoData; a span that does not decode returns
// common.ErrMalformedReply. Callers scope both to the one document (or batch
// call) that produced the reply.
func NormalizeReply(raw string) (ResultSet, error) {
	clean := StripCodeFences(raw)
	if clean == "" {
		return ResultSet{}, common.NewAppError(common.CodeNormalization, "empty reply", common.ErrNoData)
	}

	if recs, err := decodeArray(clean); err == nil {
		return recs, nil
	}

	span := reBracketSpan.FindString(clean)
	if span == "" {
		return ResultSet{}, common.NewAppError(common.CodeNormalization, "no JSON array in reply", common.ErrNoData)
	}
	if recs, err := decodeArray(span); err == nil {
		return recs, nil
	}
	if bal := firstBalancedArray(clean); bal != "" && bal != span {
		if recs, err := decodeArray(bal); err == nil {
			return recs, nil
		}
	}
	return nil, common.NewAppError(common.CodeNormalization, "JSON array did not decode", common.ErrMalformedReply)
}

// StripCodeFences removes a leading triple-backtick fence (with optional
// language tag) and a trailing fence, and trims surrounding whitespace.
// Fences inside the body are left alone.
func StripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		rest := t[3:]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			if tag := strings.TrimSpace(rest[:i]); tag == "" || reLangTag.MatchString(tag) {
				t = rest[i+1:]
			}
		} else {
			// single-line fenced reply, e.g. "```json"
			t = strings.TrimPrefix(rest, "json")
		}
	}
	t = strings.TrimSpace(t)
	if strings.HasSuffix(t, "```") {
		t = strings.TrimSpace(t[:len(t)-3])
	}
	return t
}

// decodeArray decodes s as a JSON array of objects. An empty array is a
// valid, empty ResultSet, not an error.
func decodeArray(s string) (ResultSet, error) {
	var rows []map[string]any
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	out := make(ResultSet, 0, len(rows))
	for _, r := range rows {
		out = append(out, FieldRecord(r))
	}
	return out, nil
}

// firstBalancedArray returns the first bracket-balanced '[...]' substring,
// tracking JSON string literals so brackets inside values don't count.
func firstBalancedArray(s string) string {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
