package ai

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.5-flash-preview-09-2025"

	// candidateTextPath is where generateContent puts the generated string.
	candidateTextPath = "candidates.0.content.parts.0.text"
)

// GeminiClient calls the generateContent endpoint of the Generative Language
// API. The API key travels as the key query parameter.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiConfig holds Gemini-specific configuration
type GeminiConfig struct {
	APIKey         string
	Model          string // e.g., "gemini-2.5-flash-preview-09-2025"
	BaseURL        string // e.g., "https://generativelanguage.googleapis.com/v1beta"
	ProxyURL       string
	TimeoutSeconds int
}

// geminiRequest must marshal to {"contents":[{"parts":[{"text":...}]}]}
// exactly; the upstream rejects any other nesting.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

func newGeminiRequest(prompt string) geminiRequest {
	return geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}

	httpClient, err := newHTTPClient(cfg.ProxyURL, cfg.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}, nil
}

// Generate performs one generateContent call.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	startTime := time.Now()

	body, err := postJSON(ctx, c.httpClient, c.endpoint(), newGeminiRequest(prompt))
	if err != nil {
		return nil, err
	}

	text, ok := ExtractCandidateText(body)
	if !ok {
		return nil, ErrEmptyResponse
	}

	return &Generation{
		Text:  text,
		Stats: c.calculateStats(body, time.Since(startTime).Seconds()),
	}, nil
}

func (c *GeminiClient) endpoint() string {
	return c.baseURL + "/models/" + url.PathEscape(c.model) + ":generateContent?key=" + url.QueryEscape(c.apiKey)
}

// ExtractCandidateText reads candidates[0].content.parts[0].text from a
// generateContent reply. Any missing level, a non-string value, an empty
// string or a body that is not JSON at all yields ok == false.
func ExtractCandidateText(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}

	result := gjson.GetBytes(body, candidateTextPath)
	if result.Type != gjson.String || result.Str == "" {
		return "", false
	}

	return result.Str, true
}

// calculateStats reads usageMetadata; absent counters stay zero.
func (c *GeminiClient) calculateStats(body []byte, durationSeconds float64) *Stats {
	usage := gjson.GetBytes(body, "usageMetadata")

	return &Stats{
		Provider:        c.GetProviderName(),
		Model:           c.model,
		InputTokens:     int(usage.Get("promptTokenCount").Int()),
		OutputTokens:    int(usage.Get("candidatesTokenCount").Int()),
		DurationSeconds: durationSeconds,
	}
}

// GetModelInfo returns information about the configured model
func (c *GeminiClient) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"model":    c.model,
		"provider": c.GetProviderName(),
		"base_url": c.baseURL,
		"has_key":  c.apiKey != "",
	}
}

// GetProviderName returns the name of the provider
func (c *GeminiClient) GetProviderName() string {
	return "Gemini"
}

// Ensure GeminiClient implements Provider interface
var _ Provider = (*GeminiClient)(nil)
