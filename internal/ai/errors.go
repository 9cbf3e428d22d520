package ai

import (
	"errors"
	"fmt"

	internalerrors "github.com/olegiv/skripsi-ai-go/internal/errors"
)

// ErrorKind classifies a generation failure.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindConfiguration ErrorKind = "configuration"
	KindTransport     ErrorKind = "transport"
	KindUpstream      ErrorKind = "upstream"
	KindEmptyResponse ErrorKind = "empty_response"
	KindUnhandled     ErrorKind = "unhandled"
)

var (
	// ErrMissingAPIKey is returned before any network activity when no
	// credential is configured. An operator has to fix the environment.
	ErrMissingAPIKey = errors.New("API key not found — configure it and retry")

	// ErrEmptyResponse means the upstream answered 2xx without usable text.
	ErrEmptyResponse = errors.New("AI response invalid or empty")
)

// TransportError wraps a failure to reach the upstream provider.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return internalerrors.Wrapf(e.Err, "upstream request failed").Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError is a non-2xx reply from the upstream provider. Body is kept
// verbatim (minus credentials) and is not interpreted.
type UpstreamError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Kind maps err onto the failure taxonomy. Unknown errors are unhandled
// faults.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var transportErr *TransportError
	var upstreamErr *UpstreamError

	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return KindConfiguration
	case errors.As(err, &upstreamErr):
		return KindUpstream
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse
	default:
		return KindUnhandled
	}
}

// Details returns the sanitized diagnostic string for err: the captured
// upstream body for UpstreamError, otherwise the error message.
func Details(err error) string {
	if err == nil {
		return ""
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.Body != "" {
		return internalerrors.SanitizeString(upstreamErr.Body)
	}

	return internalerrors.SanitizeString(err.Error())
}
