package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
	"github.com/joseph-ayodele/shipbill-extractor/internal/export"
	"github.com/joseph-ayodele/shipbill-extractor/internal/extract"
	"github.com/joseph-ayodele/shipbill-extractor/internal/llm/gemini"
	"github.com/joseph-ayodele/shipbill-extractor/internal/pipeline"
	"github.com/joseph-ayodele/shipbill-extractor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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

	h := server.NewHandler(logger, proc, export.NewService(logger), cfg.Server.MaxUploadMB)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
