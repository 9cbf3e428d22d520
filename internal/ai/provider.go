package ai

import (
	"context"
	"fmt"
	"strings"
)

// Provider is a generative-language backend. Generate performs exactly one
// upstream call and never retries; retry pacing belongs to the caller.
type Provider interface {
	// Generate sends prompt upstream and returns the extracted text.
	Generate(ctx context.Context, prompt string) (*Generation, error)

	// GetModelInfo returns information about the configured model
	GetModelInfo() map[string]interface{}

	// GetProviderName returns the name of the provider (e.g., "Gemini")
	GetProviderName() string
}

// Generation is a successful upstream result. Text is never empty.
type Generation struct {
	Text  string
	Stats *Stats
}

// Stats holds statistics about one upstream call
type Stats struct {
	Provider        string
	Model           string
	InputTokens     int
	OutputTokens    int
	DurationSeconds float64
}

// ProviderType represents the type of upstream provider
type ProviderType string

const (
	ProviderGemini    ProviderType = "gemini"
	ProviderAnthropic ProviderType = "anthropic"
)

// ValidProviderTypes returns a list of valid provider types
func ValidProviderTypes() []ProviderType {
	return []ProviderType{ProviderGemini, ProviderAnthropic}
}

// IsValidProviderType checks if the given provider type is valid
func IsValidProviderType(pt string) bool {
	for _, valid := range ValidProviderTypes() {
		if string(valid) == pt {
			return true
		}
	}
	return false
}

// Config selects and configures a Provider.
type Config struct {
	Provider ProviderType

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	AnthropicAPIKey string
	ClaudeModel     string
	MaxTokens       int

	ProxyURL       string
	TimeoutSeconds int // 0 disables the per-call timeout
}

// NewProvider builds the configured provider. A missing API key is not an
// error here: it surfaces as ErrMissingAPIKey on every Generate call so the
// process keeps serving and reports the problem per request.
func NewProvider(cfg Config) (Provider, error) {
	switch ProviderType(strings.ToLower(string(cfg.Provider))) {
	case ProviderGemini, "":
		return NewGeminiClient(GeminiConfig{
			APIKey:         cfg.GeminiAPIKey,
			Model:          cfg.GeminiModel,
			BaseURL:        cfg.GeminiBaseURL,
			ProxyURL:       cfg.ProxyURL,
			TimeoutSeconds: cfg.TimeoutSeconds,
		})
	case ProviderAnthropic:
		return NewAnthropicClient(AnthropicConfig{
			APIKey:         cfg.AnthropicAPIKey,
			Model:          cfg.ClaudeModel,
			ProxyURL:       cfg.ProxyURL,
			TimeoutSeconds: cfg.TimeoutSeconds,
			MaxTokens:      cfg.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unsupported provider %q (valid: %v)", cfg.Provider, ValidProviderTypes())
	}
}
