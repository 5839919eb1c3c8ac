package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
	"github.com/joseph-ayodele/shipbill-extractor/internal/extract"
	"github.com/joseph-ayodele/shipbill-extractor/internal/llm"
)

// Config holds per-batch processing knobs.
type Config struct {
	MaxTextChars int // per-document text cap before prompting, default 10000
	Concurrency  int // documents processed in parallel, default 1
}

// Processor coordinates the three stages per document: text extraction,
// prompted extraction, response normalization.
type Processor struct {
	Logger    *slog.Logger
	Cfg       Config
	Extractor extract.TextExtractor
	Generator llm.Generator
}

// Diagnostic reports one per-document failure without aborting the batch.
type Diagnostic struct {
	Source  string `json:"source"`
	Stage   string `json:"stage"` // "extract" | "generate" | "normalize"
	Message string `json:"message"`
}

// BatchResult is the outcome of one upload batch. Records preserve upload
// order; documents that failed contribute diagnostics instead of rows.
type BatchResult struct {
	Records     llm.ResultSet `json:"records"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty"`
}

func NewProcessor(logger *slog.Logger, cfg Config, tx extract.TextExtractor, gen llm.Generator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = 10000
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Processor{Logger: logger, Cfg: cfg, Extractor: tx, Generator: gen}
}

type docOutcome struct {
	records     llm.ResultSet
	diagnostics []Diagnostic
}

// ProcessBatch runs the pipeline for each document and concatenates the
// per-document record groups in upload order. Documents run with bounded
// parallelism; ordering stays deterministic because outcomes are assembled
// by index. One document's failure never affects another's result.
func (p *Processor) ProcessBatch(ctx context.Context, docs []extract.Document) (BatchResult, error) {
	start := time.Now()
	batchID := uuid.New().String()

	p.Logger.Info("pipeline.batch.start",
		"batch_id", batchID,
		"documents", len(docs),
		"concurrency", p.Cfg.Concurrency,
	)

	outcomes := make([]docOutcome, len(docs))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.Cfg.Concurrency)
	for i, doc := range docs {
		eg.Go(func() error {
			outcomes[i] = p.processOne(gctx, batchID, i, len(docs), doc)
			return nil
		})
	}
	// workers never return errors; only cancellation can interrupt the batch
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Records: llm.ResultSet{}}
	for _, o := range outcomes {
		res.Records = append(res.Records, o.records...)
		res.Diagnostics = append(res.Diagnostics, o.diagnostics...)
	}

	p.Logger.Info("pipeline.batch.ok",
		"batch_id", batchID,
		"rows", len(res.Records),
		"diagnostics", len(res.Diagnostics),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Processor) processOne(ctx context.Context, batchID string, idx, total int, doc extract.Document) docOutcome {
	p.Logger.Info("pipeline.document.start",
		"batch_id", batchID,
		"source", doc.Source,
		"index", idx+1,
		"total", total,
	)

	txt, err := p.Extractor.Extract(ctx, doc)
	if err != nil {
		p.Logger.Error("pipeline.document.extract_failed", "batch_id", batchID, "source", doc.Source, "error", err)
		return docOutcome{diagnostics: []Diagnostic{{Source: doc.Source, Stage: "extract", Message: err.Error()}}}
	}

	prompt := llm.BuildExtractionPrompt([]llm.DocumentText{{Source: doc.Source, Text: txt.Text}}, p.Cfg.MaxTextChars)
	raw, err := p.Generator.Generate(ctx, prompt)
	if err != nil {
		p.Logger.Error("pipeline.document.generate_failed", "batch_id", batchID, "source", doc.Source, "error", err)
		return docOutcome{diagnostics: []Diagnostic{{Source: doc.Source, Stage: "generate", Message: err.Error()}}}
	}

	recs, err := llm.NormalizeReply(raw)
	if err != nil {
		if errors.Is(err, common.ErrNoData) {
			// zero rows is a reportable outcome, not a hard failure
			p.Logger.Warn("pipeline.document.no_data", "batch_id", batchID, "source", doc.Source)
			return docOutcome{
				records:     recs,
				diagnostics: []Diagnostic{{Source: doc.Source, Stage: "normalize", Message: "no data recovered"}},
			}
		}
		p.Logger.Error("pipeline.document.normalize_failed", "batch_id", batchID, "source", doc.Source, "error", err)
		return docOutcome{diagnostics: []Diagnostic{{Source: doc.Source, Stage: "normalize", Message: err.Error()}}}
	}

	out := docOutcome{records: make(llm.ResultSet, 0, len(recs))}
	for _, rec := range recs {
		clean, adjusted := llm.SanitizeRecord(rec, doc.Source)
		if len(adjusted) > 0 {
			p.Logger.Debug("pipeline.document.sanitized", "batch_id", batchID, "source", doc.Source, "adjusted", adjusted)
		}
		if err := llm.ValidateRecord(clean); err != nil {
			// advisory: flag for review, keep the row
			p.Logger.Warn("pipeline.document.needs_review", "batch_id", batchID, "source", doc.Source, "error", err)
		}
		out.records = append(out.records, clean)
	}

	p.Logger.Info("pipeline.document.ok",
		"batch_id", batchID,
		"source", doc.Source,
		"pages", txt.Pages,
		"rows", len(out.records),
	)
	return out
}
