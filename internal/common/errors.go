package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes used across the pipeline. Per-document errors carry one of
// these so diagnostics can name the failing stage.
const (
	CodeConfig        = "CONFIG_ERROR"
	CodeExtraction    = "EXTRACTION_ERROR"
	CodeGeneration    = "GENERATION_ERROR"
	CodeNormalization = "NORMALIZATION_ERROR"
)

// Sentinel errors callers can test with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")

	// Generation subtypes: each maps to a distinct user-actionable message.
	ErrModelNotFound = errors.New("model not found")
	ErrQuotaExceeded = errors.New("quota exceeded")

	// Normalization outcomes. ErrNoData means the reply contained no
	// array-shaped span at all; ErrMalformedReply means a span was found
	// but did not decode.
	ErrNoData         = errors.New("no data recovered")
	ErrMalformedReply = errors.New("malformed reply")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
