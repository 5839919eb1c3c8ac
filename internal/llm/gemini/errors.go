package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
)

// classifyError maps provider failures onto the generation taxonomy so each
// surfaces a distinct, user-actionable diagnostic instead of a generic one.
func classifyError(model, fallback string, err error) error {
	code := statusCode(err)
	switch code {
	case http.StatusNotFound:
		msg := fmt.Sprintf("model %q not found; your API key may not have access to it yet", model)
		if fallback != "" && fallback != model {
			msg += fmt.Sprintf(" (will try %q)", fallback)
		}
		return common.NewAppError(common.CodeGeneration, msg, common.ErrModelNotFound)
	case http.StatusTooManyRequests:
		return common.NewAppError(common.CodeGeneration,
			"quota exceeded; add a billing account to your Google AI Studio project to unlock your limits",
			common.ErrQuotaExceeded)
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.NewAppError(common.CodeConfig, "API key rejected by the provider", err)
	}
	return common.NewAppError(common.CodeGeneration, "call model "+model, err)
}

// statusCode digs an HTTP status out of the provider error. The genai client
// usually wraps *googleapi.Error; gRPC-transported failures only carry the
// code in their message, so fall back to string matching like the upstream
// clients do.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	s := err.Error()
	switch {
	case strings.Contains(s, "404"), strings.Contains(s, "NotFound"):
		return http.StatusNotFound
	case strings.Contains(s, "429"), strings.Contains(s, "ResourceExhausted"):
		return http.StatusTooManyRequests
	case strings.Contains(s, "401"), strings.Contains(s, "Unauthenticated"):
		return http.StatusUnauthorized
	case strings.Contains(s, "403"), strings.Contains(s, "PermissionDenied"):
		return http.StatusForbidden
	}
	return 0
}

// isTransient reports whether a raw provider error is worth retrying:
// 5xx responses, per-call timeouts, and network timeouts.
func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	return false
}
