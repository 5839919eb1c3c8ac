package gemini

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
)

// Config for the Gemini client.
type Config struct {
	APIKey        string        // if empty, falls back to env GEMINI_API_KEY
	Model         string        // e.g. "gemini-2.0-flash-lite"
	FallbackModel string        // tried once when the provider rejects Model as unknown
	Timeout       time.Duration // per-call timeout
	MaxRetries    int           // quota/transient retries per model
}

type Client struct {
	cfg    Config
	client *genai.Client
	logger *slog.Logger
}

// NewClient builds a Gemini-backed llm.Generator. The API key is the one
// secret credential; its absence is a configuration error, not a crash later.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, common.NewAppError(common.CodeConfig, "missing GEMINI_API_KEY", common.ErrInvalidInput)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-lite"
	}
	if cfg.FallbackModel == "" {
		cfg.FallbackModel = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "create gemini client", err)
	}
	return &Client{cfg: cfg, client: gc, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
