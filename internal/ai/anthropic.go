package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
)

const (
	defaultClaudeModel     = "claude-sonnet-4-5-20250929"
	defaultClaudeMaxTokens = 4096
)

// AnthropicClient is the alternative upstream, selected with
// LLM_PROVIDER=anthropic.
type AnthropicClient struct {
	client    *anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

// AnthropicConfig holds Anthropic-specific configuration
type AnthropicConfig struct {
	APIKey         string
	Model          string
	BaseURL        string // overrides https://api.anthropic.com/v1, tests only
	ProxyURL       string
	TimeoutSeconds int
	MaxTokens      int
}

// NewAnthropicClient creates a new Claude client
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.Model == "" {
		cfg.Model = defaultClaudeModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultClaudeMaxTokens
	}

	httpClient, err := newHTTPClient(cfg.ProxyURL, cfg.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	opts := []anthropic.ClientOption{anthropic.WithHTTPClient(httpClient)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")))
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Generate performs one Messages API call.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	startTime := time.Now()

	request := anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: c.maxTokens,
	}

	response, err := c.client.CreateMessages(ctx, request)
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	var text strings.Builder
	for _, content := range response.Content {
		if content.Type == "text" && content.Text != nil {
			text.WriteString(*content.Text)
		}
	}
	if text.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	return &Generation{
		Text: text.String(),
		Stats: &Stats{
			Provider:        c.GetProviderName(),
			Model:           c.model,
			InputTokens:     response.Usage.InputTokens,
			OutputTokens:    response.Usage.OutputTokens,
			DurationSeconds: time.Since(startTime).Seconds(),
		},
	}, nil
}

// classifyAnthropicError maps SDK errors onto the shared taxonomy. API errors
// become UpstreamError; anything else never got a reply.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.APIError
	if !errors.As(err, &apiErr) {
		return &TransportError{Err: err}
	}

	status := http.StatusBadGateway
	switch {
	case apiErr.IsRateLimitErr():
		status = http.StatusTooManyRequests
	case apiErr.IsOverloadedErr():
		status = statusOverloaded
	case apiErr.Type == anthropic.ErrTypeAuthentication:
		status = http.StatusUnauthorized
	case apiErr.Type == anthropic.ErrTypeInvalidRequest:
		status = http.StatusBadRequest
	}

	return &UpstreamError{
		StatusCode: status,
		Body:       apiErr.Message,
		Cause:      err,
	}
}

// GetModelInfo returns information about the configured model
func (c *AnthropicClient) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"model":      c.model,
		"provider":   c.GetProviderName(),
		"max_tokens": c.maxTokens,
		"has_key":    c.apiKey != "",
	}
}

// GetProviderName returns the name of the provider
func (c *AnthropicClient) GetProviderName() string {
	return "Anthropic"
}

// Ensure AnthropicClient implements Provider interface
var _ Provider = (*AnthropicClient)(nil)
