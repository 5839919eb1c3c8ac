package llm

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
)

func TestNormalizeReplyFencedArray(t *testing.T) {
	raw := "```json\n[{\"SB No\": \"123\", \"LUT\": \"Y\"}]\n```"

	recs, err := NormalizeReply(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got, want := len(recs), 1; got != want {
		t.Fatalf("expected %d records, got %d", want, got)
	}
	if recs[0]["SB No"] != "123" {
		t.Errorf("SB No = %v, want 123", recs[0]["SB No"])
	}
	if recs[0]["LUT"] != "Y" {
		t.Errorf("LUT = %v, want Y", recs[0]["LUT"])
	}
}

func TestNormalizeReplySurroundingProse(t *testing.T) {
	raw := `Here is the result: [{"a":1}] Let me know if you need more.`

	recs, err := NormalizeReply(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if got, ok := recs[0]["a"].(float64); !ok || got != 1 {
		t.Errorf("a = %v, want 1", recs[0]["a"])
	}
}

func TestNormalizeReplyNoData(t *testing.T) {
	recs, err := NormalizeReply("No data available.")
	if err == nil {
		t.Fatal("expected a no-data signal")
	}
	if !errors.Is(err, common.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
	if errors.Is(err, common.ErrMalformedReply) {
		t.Error("no-data must be distinguishable from malformed")
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty ResultSet, got %v", recs)
	}
}

func TestNormalizeReplyEmptyArray(t *testing.T) {
	recs, err := NormalizeReply("[]")
	if err != nil {
		t.Fatalf("empty array must not be an error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty ResultSet, got %d records", len(recs))
	}
}

func TestNormalizeReplyMalformedSpan(t *testing.T) {
	recs, err := NormalizeReply(`[{"SB No": "123",]`)
	if err == nil {
		t.Fatal("expected a malformed-reply failure")
	}
	if !errors.Is(err, common.ErrMalformedReply) {
		t.Errorf("error = %v, want ErrMalformedReply", err)
	}
	if errors.Is(err, common.ErrNoData) {
		t.Error("malformed must be distinguishable from no-data")
	}
	if recs != nil {
		t.Errorf("expected nil records, got %v", recs)
	}
}

func TestNormalizeReplyTwoArraysTakesFirst(t *testing.T) {
	raw := `[{"a":"1"}] and separately [{"b":"2"}]`

	recs, err := NormalizeReply(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0]["a"] != "1" {
		t.Errorf("expected the first array to win, got %v", recs[0])
	}
	if _, ok := recs[0]["b"]; ok {
		t.Error("arrays must not be merged")
	}
}

func TestNormalizeReplyBracketsInsideStrings(t *testing.T) {
	raw := `[{"SB No":"[12]3"}] trailing note`

	recs, err := NormalizeReply(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if recs[0]["SB No"] != "[12]3" {
		t.Errorf("SB No = %v, want [12]3", recs[0]["SB No"])
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `[{"a":1}]`, `[{"a":1}]`},
		{"json tag", "```json\n[]\n```", "[]"},
		{"bare fence", "```\n[]\n```", "[]"},
		{"leading only", "```json\n[]", "[]"},
		{"whitespace", "  \n```json\n[] \n```  ", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
