// Package errors redacts credentials from errors and strings before they are
// logged or returned to a browser.
package errors

import (
	"fmt"
	"regexp"
	"strings"
)

// Credential patterns to redact. Order matters: the more specific patterns
// run first so a key inside a URL collapses into a single placeholder.
var credentialPatterns = []*regexp.Regexp{
	// Google API key (Gemini): AIza followed by 35 URL-safe characters
	regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),
	// Anthropic API key: sk-ant-api03-... or sk-ant-...
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{10,}`),
	// Generic OpenAI-style API key
	regexp.MustCompile(`sk-[a-zA-Z0-9_-]{32,}`),
	// Telegram bot token: 123456789:ABC-DEF...
	regexp.MustCompile(`\d{8,12}:[a-zA-Z0-9_-]{30,}`),
	// Bearer tokens in headers
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_.-]+`),
	// Authorization headers
	regexp.MustCompile(`(?i)authorization[:\s]+[^\s]+`),
	// api_key / api-key / apikey parameters
	regexp.MustCompile(`(?i)api[_-]?key[=:][^\s&"']+`),
	// Bare key= query parameter, as used by the generateContent endpoint
	regexp.MustCompile(`(?i)\bkey=[^\s&"']+`),
	// X-API-Key / X-Goog-Api-Key headers
	regexp.MustCompile(`(?i)x-(goog-)?api-key[:\s]+[^\s]+`),
}

const redactedPlaceholder = "[REDACTED]"

// SanitizeError returns err with any credentials in its message redacted.
// The original error stays reachable through Unwrap.
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}

	sanitized := SanitizeString(err.Error())
	if sanitized == err.Error() {
		return err
	}

	return &sanitizedError{
		original:  err,
		sanitized: sanitized,
	}
}

// SanitizeString redacts credential patterns from a string.
func SanitizeString(s string) string {
	result := s
	for _, pattern := range credentialPatterns {
		result = pattern.ReplaceAllString(result, redactedPlaceholder)
	}
	return result
}

// Wrapf is fmt.Errorf("...: %w", err) for errors that may carry a credential,
// such as *url.Error values whose URL embeds the API key.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, SanitizeError(err))
}

type sanitizedError struct {
	original  error
	sanitized string
}

func (e *sanitizedError) Error() string {
	return e.sanitized
}

func (e *sanitizedError) Unwrap() error {
	return e.original
}

// ContainsCredentials reports whether s matches any credential pattern.
func ContainsCredentials(s string) bool {
	for _, pattern := range credentialPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// MaskCredential partially masks a credential for startup logs, e.g.
// "AIzaSyA...": "AIza***...".
func MaskCredential(s string) string {
	if len(s) < 10 {
		return strings.Repeat("*", len(s))
	}

	switch {
	case strings.HasPrefix(s, "AIza"):
		return "AIza***..."
	case strings.HasPrefix(s, "sk-ant-"):
		return "sk-ant-***..."
	}

	// Telegram bot token format (number:token)
	if idx := strings.Index(s, ":"); idx > 0 && idx <= 12 {
		return s[:idx] + ":***..."
	}

	return s[:4] + "***..."
}
