package extract

import (
	"context"
	"time"
)

// Document is one uploaded file: raw bytes plus its source identity.
// Documents are transient; they live for the duration of one request.
type Document struct {
	Source  string
	Content []byte
}

// TextExtractor is Stage 1: document bytes -> page-concatenated text.
type TextExtractor interface {
	Extract(ctx context.Context, doc Document) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Duration time.Duration
	Warnings []string
}
