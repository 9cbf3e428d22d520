package ai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// statusOverloaded is Anthropic's non-standard "overloaded" status.
const statusOverloaded = 529

// IsRateLimited reports whether err is an upstream rate-limit reply. Used for
// log fields only; the retry schedule does not change.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRateLimitErr()
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		if upstreamErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return strings.Contains(upstreamErr.Body, "RESOURCE_EXHAUSTED")
	}

	return false
}

// IsOverloaded reports whether err indicates the upstream is overloaded.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsOverloadedErr()
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode == http.StatusServiceUnavailable ||
			upstreamErr.StatusCode == statusOverloaded
	}

	return false
}
