// Package gemini sends single-turn prompts to the Gemini generateContent API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.0-flash"

// ErrEmptyResponse is returned when the reply carries no text part
var ErrEmptyResponse = errors.New("gemini returned no text")

// Config configures the Gemini client
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration
	HTTPClient  *http.Client
}

// Client wraps the genai SDK with attempt accounting and logging
type Client struct {
	client      *genai.Client
	model       string
	logger      *zap.Logger
	maxAttempts int
	baseDelay   time.Duration
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client:      client,
		model:       cfg.Model,
		logger:      logger,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
	}, nil
}

// Name identifies the provider in logs and metrics
func (c *Client) Name() string {
	return "gemini"
}

// Generate sends prompt as one user turn and returns the first text part
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Info("retrying gemini request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("gemini request cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		text, err := c.generate(ctx, prompt)
		if err == nil {
			c.logger.Info("gemini request completed",
				zap.Duration("processing_time", time.Since(startTime)),
				zap.Int("attempts", attempt+1),
			)
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("gemini request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	c.logger.Error("gemini request failed",
		zap.Error(lastErr),
		zap.Duration("total_time", time.Since(startTime)),
		zap.Int("max_attempts", c.maxAttempts),
	)
	return "", fmt.Errorf("gemini request failed: %w", lastErr)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content request failed: %w", err)
	}

	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return "", ErrEmptyResponse
	}
	text := cand.Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
