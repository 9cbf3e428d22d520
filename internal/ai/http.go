package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxUpstreamBodyBytes caps how much of an upstream reply is read.
const maxUpstreamBodyBytes = 4 << 20

// newHTTPClient builds the outbound client. A zero timeout leaves calls
// unbounded.
func newHTTPClient(proxyURL string, timeoutSeconds int) (*http.Client, error) {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if proxyURL == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	proxyURLParsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if proxyURLParsed.Scheme != "http" && proxyURLParsed.Scheme != "https" {
		return nil, fmt.Errorf("proxy URL must use http or https scheme, got: %s", proxyURLParsed.Scheme)
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURLParsed),
		},
		Timeout: timeout,
	}, nil
}

// postJSON performs one JSON POST and returns the raw 2xx body. Transport
// failures come back as *TransportError, non-2xx replies as *UpstreamError.
func postJSON(ctx context.Context, client *http.Client, endpoint string, request any) ([]byte, error) {
	reqBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
