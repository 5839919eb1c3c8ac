package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
	"github.com/joseph-ayodele/shipbill-extractor/internal/export"
	"github.com/joseph-ayodele/shipbill-extractor/internal/extract"
	"github.com/joseph-ayodele/shipbill-extractor/internal/llm/gemini"
	"github.com/joseph-ayodele/shipbill-extractor/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory of shipping-bill PDFs to process (required)")
		out         = flag.String("out", "", "output XLSX file path (defaults to <dir>/../Shipping_Bill_Data.xlsx)")
		concurrency = flag.Int("concurrency", 0, "documents processed in parallel (defaults to CONCURRENCY)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), export.DefaultFilename)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := common.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *concurrency > 0 {
		cfg.Extract.Concurrency = *concurrency
	}

	docs, err := readPDFs(*dir)
	if err != nil {
		logger.Error("failed to read input directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		printError("Error: no PDF files found in %s\n", *dir)
		os.Exit(1)
	}

	ctx := context.Background()

	gen, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:        cfg.LLM.APIKey,
		Model:         cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		Timeout:       cfg.LLM.Timeout,
		MaxRetries:    cfg.LLM.MaxRetries,
	}, logger)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := gen.Close(); err != nil {
			logger.Warn("gemini client close error", "error", err)
		}
	}()

	proc := pipeline.NewProcessor(logger, pipeline.Config{
		MaxTextChars: cfg.Extract.MaxTextChars,
		Concurrency:  cfg.Extract.Concurrency,
	}, extract.NewPDFExtractor(logger), gen)

	res, err := proc.ProcessBatch(ctx, docs)
	if err != nil {
		logger.Error("batch processing failed", "error", err)
		os.Exit(1)
	}
	for _, d := range res.Diagnostics {
		printError("warning: %s [%s]: %s\n", d.Source, d.Stage, d.Message)
	}

	xlsx, err := export.NewService(logger).BuildXLSX(res.Records)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("failed to write workbook", "path", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d documents: %d rows, %d warnings -> %s\n",
		len(docs), len(res.Records), len(res.Diagnostics), *out)
}

// readPDFs loads every *.pdf in dir, sorted by name so the batch order (and
// so the output row order) is stable.
func readPDFs(dir string) ([]extract.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]extract.Document, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		docs = append(docs, extract.Document{Source: name, Content: content})
	}
	return docs, nil
}
