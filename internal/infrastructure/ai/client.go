// Package ai provides the chat-completions client behind AI recipe parsing
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

const systemPrompt = "You extract structured recipe data. Reply with JSON only."

// Client implements outbound.TextCompleter against an OpenAI-compatible
// /chat/completions endpoint
type Client struct {
	client *resty.Client
	model  string
	tracer trace.Tracer
	logger *zap.Logger
}

var _ outbound.TextCompleter = (*Client)(nil)

// NewClient creates a completion client from the AI configuration. Calls are
// never retried; a failure goes straight back to the caller.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		client: client,
		model:  cfg.Model,
		tracer: otel.Tracer("recipebox/ai"),
		logger: logger.Named("ai-client"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends one prompt and returns the first choice's content
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	ctx, span := c.tracer.Start(ctx, "ai.Complete", trace.WithAttributes(
		attribute.String("ai.model", c.model),
		attribute.Int("ai.max_tokens", maxTokens),
	))
	defer span.End()

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("failed to send completion request: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("completion API returned %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
		span.SetStatus(codes.Error, "bad status")
		c.logger.Warn("Completion request rejected", zap.Int("status", resp.StatusCode()))
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	span.SetAttributes(attribute.Int("ai.total_tokens", result.Usage.TotalTokens))
	c.logger.Debug("Completion received",
		zap.String("model", c.model),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return result.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
