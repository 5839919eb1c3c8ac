package llm

import (
	"testing"

	"github.com/joseph-ayodele/shipbill-extractor/constants"
)

func validRecord() FieldRecord {
	return FieldRecord{
		constants.FieldSBNo:     "5012345",
		constants.FieldSBDate:   "12-01-2025",
		constants.FieldLUT:      "Y",
		constants.FieldIGSTAmt:  "0.00",
		constants.FieldPortCode: "INMAA1",
		constants.FieldSource:   "bill1.pdf",
	}
}

func TestValidateRecordOK(t *testing.T) {
	if err := ValidateRecord(validRecord()); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}

func TestValidateRecordAllowsExtraKeys(t *testing.T) {
	rec := validRecord()
	rec["Exporter Name"] = "ACME Exports"
	if err := ValidateRecord(rec); err != nil {
		t.Fatalf("extra key rejected: %v", err)
	}
}

func TestValidateRecordFlagsBadLUT(t *testing.T) {
	rec := validRecord()
	rec[constants.FieldLUT] = constants.NotFound
	if err := ValidateRecord(rec); err == nil {
		t.Fatal("unclassified LUT should fail advisory validation")
	}
}

func TestValidateRecordFlagsMissingField(t *testing.T) {
	rec := validRecord()
	delete(rec, constants.FieldSBNo)
	if err := ValidateRecord(rec); err == nil {
		t.Fatal("missing SB No should fail advisory validation")
	}
}
