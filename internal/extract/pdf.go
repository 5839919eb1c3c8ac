package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
)

// PDFExtractor extracts the text layer of a PDF, page by page.
// No OCR: scanned documents with no text layer yield empty text.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

// Extract returns the concatenation of per-page text in page order, trimmed.
// Pages that fail to parse are skipped with a warning rather than failing
// the whole document; a document that fails to open returns an error scoped
// to that document only.
func (e *PDFExtractor) Extract(ctx context.Context, doc Document) (res TextExtractionResult, err error) {
	start := time.Now()

	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			res = TextExtractionResult{Duration: time.Since(start)}
			err = common.NewAppError(common.CodeExtraction, fmt.Sprintf("pdf parse panic: %v", r), nil)
		}
	}()

	if len(doc.Content) == 0 {
		return TextExtractionResult{}, common.NewAppError(common.CodeExtraction, "empty document", common.ErrInvalidInput)
	}

	r, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return TextExtractionResult{}, common.NewAppError(common.CodeExtraction, "open pdf", err)
	}

	var b strings.Builder
	var warns []string
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return TextExtractionResult{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			warns = append(warns, fmt.Sprintf("page %d: missing", i))
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if b.Len() > 0 {
			// keep a clear page break marker, same as pdftotext output
			b.WriteString("\f")
		}
		for _, row := range rows {
			for _, word := range row.Content {
				b.WriteString(word.S)
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}
	}

	res = TextExtractionResult{
		Text:     strings.TrimSpace(b.String()),
		Pages:    numPages,
		Duration: time.Since(start),
		Warnings: warns,
	}
	e.logger.Debug("extract.pdf.ok",
		"source", doc.Source,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"warnings", len(warns),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
