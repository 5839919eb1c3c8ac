package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/shipbill-extractor/internal/common"
)

// Generate implements llm.Generator. It calls the configured model once per
// attempt and returns the model's textual reply verbatim. A model-not-found
// rejection switches to the fallback model for one more round; quota and
// transient transport failures get bounded retries with backoff.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.generate.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"prompt_len", len(prompt),
	)

	text, err := c.generateWith(ctx, rid, c.cfg.Model, prompt)
	if err != nil && errors.Is(err, common.ErrModelNotFound) &&
		c.cfg.FallbackModel != "" && c.cfg.FallbackModel != c.cfg.Model {
		c.logger.Warn("llm.generate.fallback",
			"req_id", rid,
			"model", c.cfg.Model,
			"fallback_model", c.cfg.FallbackModel,
			"error", err,
		)
		text, err = c.generateWith(ctx, rid, c.cfg.FallbackModel, prompt)
	}
	if err != nil {
		c.logger.Error("llm.generate.failed",
			"req_id", rid,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.logger.Info("llm.generate.ok",
		"req_id", rid,
		"reply_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) generateWith(ctx context.Context, rid, model, prompt string) (string, error) {
	m := c.client.GenerativeModel(model)
	m.SetTemperature(0)

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return "", err
			}
			c.logger.Warn("llm.generate.retry", "req_id", rid, "model", model, "attempt", attempt)
		}

		cctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		resp, err := m.GenerateContent(cctx, genai.Text(prompt))
		cancel()
		if err != nil {
			lastErr = classifyError(model, c.cfg.FallbackModel, err)
			if errors.Is(lastErr, common.ErrQuotaExceeded) || isTransient(err) {
				continue
			}
			return "", lastErr
		}

		text := joinText(resp)
		if text == "" {
			return "", common.NewAppError(common.CodeGeneration, "empty response from model "+model, nil)
		}
		return text, nil
	}
	return "", lastErr
}

// joinText concatenates the text parts of all candidates.
func joinText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// sleepBackoff waits 1s, 2s, 4s... capped at 8s, honoring ctx cancellation.
func sleepBackoff(ctx context.Context, attempt int) error {
	d := time.Second << (attempt - 1)
	if d > 8*time.Second {
		d = 8 * time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
