package gemini

import (
	"errors"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
)

func TestClassifyErrorModelNotFound(t *testing.T) {
	err := classifyError("gemini-2.0-flash-lite", "gemini-1.5-flash", &googleapi.Error{Code: 404, Message: "model not found"})
	if !errors.Is(err, common.ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
}

func TestClassifyErrorQuota(t *testing.T) {
	err := classifyError("m", "", &googleapi.Error{Code: 429, Message: "rate limited"})
	if !errors.Is(err, common.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestClassifyErrorAuth(t *testing.T) {
	err := classifyError("m", "", &googleapi.Error{Code: 403, Message: "key invalid"})
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.Code != common.CodeConfig {
		t.Fatalf("err = %v, want a CONFIG_ERROR", err)
	}
}

func TestClassifyErrorStringFallback(t *testing.T) {
	// gRPC-transported failures carry the code only in the message
	err := classifyError("m", "fb", errors.New("rpc error: code = NotFound desc = model m"))
	if !errors.Is(err, common.ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}

	err = classifyError("m", "", errors.New("googleapi: Error 429: quota exhausted"))
	if !errors.Is(err, common.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestClassifyErrorUnknown(t *testing.T) {
	err := classifyError("m", "", errors.New("connection reset"))
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.Code != common.CodeGeneration {
		t.Fatalf("err = %v, want a generic GENERATION_ERROR", err)
	}
	if errors.Is(err, common.ErrModelNotFound) || errors.Is(err, common.ErrQuotaExceeded) {
		t.Error("unknown failures must not claim a subtype")
	}
}

func TestIsTransient(t *testing.T) {
	if !isTransient(&googleapi.Error{Code: 503}) {
		t.Error("5xx should be transient")
	}
	if isTransient(&googleapi.Error{Code: 400}) {
		t.Error("4xx should not be transient")
	}
	if isTransient(errors.New("boom")) {
		t.Error("arbitrary errors should not be transient")
	}
}
