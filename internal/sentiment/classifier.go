// Package sentiment labels article descriptions with a sentiment
// verdict from an external classifier service.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/types"
)

// Well-known labels. The classifier may emit others; they pass
// through untouched.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// Neutral is the verdict used when no classification is available.
func Neutral() types.Sentiment {
	return types.Sentiment{Label: LabelNeutral, Score: 0.0}
}

// Classifier produces a sentiment verdict for a piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (types.Sentiment, error)
}

// HTTPClassifier talks to a classifier backend over HTTP. The
// "custom" provider expects a plain classify endpoint returning
// {"label": ..., "score": ...}; the "ollama" provider prompts a local
// LLM and parses the same shape out of its reply.
type HTTPClassifier struct {
	cfg    config.SentimentConfig
	client *http.Client
	logger *slog.Logger
}

// NewHTTPClassifier creates a classifier client.
func NewHTTPClassifier(cfg config.SentimentConfig, logger *slog.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.With("component", "classifier"),
	}
}

// Classify implements Classifier.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	switch c.cfg.Provider {
	case "custom", "":
		return c.classifyCustom(ctx, text)
	case "ollama":
		return c.classifyOllama(ctx, text)
	default:
		return types.Sentiment{}, &types.ClassifyError{
			Provider: c.cfg.Provider,
			Err:      fmt.Errorf("unsupported provider"),
		}
	}
}

type verdict struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *HTTPClassifier) classifyCustom(ctx context.Context, text string) (types.Sentiment, error) {
	payload, _ := json.Marshal(map[string]string{"text": text})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return types.Sentiment{}, &types.ClassifyError{Provider: "custom", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Sentiment{}, &types.ClassifyError{Provider: "custom", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.Sentiment{}, &types.ClassifyError{
			Provider: "custom",
			Err:      fmt.Errorf("HTTP %d: %s", resp.StatusCode, body),
		}
	}

	var v verdict
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return types.Sentiment{}, &types.ClassifyError{Provider: "custom", Err: fmt.Errorf("decode response: %w", err)}
	}
	return types.Sentiment{Label: strings.ToUpper(v.Label), Score: v.Score}, nil
}

func (c *HTTPClassifier) classifyOllama(ctx context.Context, text string) (types.Sentiment, error) {
	prompt := "Classify the sentiment of this financial news text as POSITIVE, NEGATIVE, or NEUTRAL " +
		"with a confidence score between 0 and 1. " +
		`Reply with JSON only: {"label": "...", "score": 0.0}` + "\n\nText: " + text

	payload, _ := json.Marshal(map[string]any{
		"model":  c.cfg.Model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return types.Sentiment{}, &types.ClassifyError{Provider: "ollama", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Sentiment{}, &types.ClassifyError{Provider: "ollama", Err: err}
	}
	defer resp.Body.Close()

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return types.Sentiment{}, &types.ClassifyError{Provider: "ollama", Err: fmt.Errorf("decode response: %w", err)}
	}

	var v verdict
	if err := json.Unmarshal([]byte(result.Response), &v); err != nil {
		return types.Sentiment{}, &types.ClassifyError{Provider: "ollama", Err: fmt.Errorf("parse verdict: %w", err)}
	}
	return types.Sentiment{Label: strings.ToUpper(v.Label), Score: v.Score}, nil
}
