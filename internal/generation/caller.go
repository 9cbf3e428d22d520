package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	internalerrors "github.com/olegiv/skripsi-ai-go/internal/errors"
	"github.com/tidwall/gjson"
)

const (
	generatePath = "/api/generate"

	// maxReplyBytes caps how much of a proxy reply is read.
	maxReplyBytes = 4 << 20
)

// Caller performs a single generation attempt.
type Caller interface {
	Call(ctx context.Context, prompt string) (string, error)
}

// ProxyError is a failed attempt against the proxy. Message follows the
// reply body: its error field, else its details field, else the status.
type ProxyError struct {
	StatusCode int
	Message    string
}

func (e *ProxyError) Error() string {
	return e.Message
}

// ProxyClient calls the generation proxy over HTTP.
type ProxyClient struct {
	endpoint   string
	httpClient *http.Client
}

// ProxyClientConfig holds proxy client settings
type ProxyClientConfig struct {
	BaseURL        string // e.g., "http://localhost:3000"
	TimeoutSeconds int    // 0 waits for the proxy indefinitely
}

// NewProxyClient creates a client for {BaseURL}/api/generate.
func NewProxyClient(cfg ProxyClientConfig) (*ProxyClient, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("proxy URL must use http or https scheme, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("proxy URL has no host: %q", cfg.BaseURL)
	}

	return &ProxyClient{
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + generatePath,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}, nil
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// Call sends one {"prompt"} request and returns the reply's text.
func (c *ProxyClient) Call(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", internalerrors.SanitizeError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProxyError{
			StatusCode: resp.StatusCode,
			Message:    replyErrorMessage(resp.StatusCode, body),
		}
	}

	text := gjson.GetBytes(body, "text")
	if text.Type != gjson.String || text.Str == "" {
		return "", ErrInvalidResponse
	}

	return text.Str, nil
}

// replyErrorMessage picks the first non-empty string among error and
// details. A body that is not JSON falls through to the status message.
func replyErrorMessage(statusCode int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"error", "details"} {
			if v := gjson.GetBytes(body, field); v.Type == gjson.String && v.Str != "" {
				return v.Str
			}
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", statusCode)
}

// Ensure ProxyClient implements Caller interface
var _ Caller = (*ProxyClient)(nil)
