// Package proxy serves POST /api/generate: it relays one prompt to the
// upstream provider and reports the outcome as {text} or {error, details}.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/olegiv/skripsi-ai-go/internal/ai"
	internalerrors "github.com/olegiv/skripsi-ai-go/internal/errors"
	"github.com/olegiv/skripsi-ai-go/internal/logging"
	"github.com/olegiv/skripsi-ai-go/internal/notification"
)

const (
	// GeneratePath is the only generation endpoint
	GeneratePath = "/api/generate"
	// HealthPath reports liveness and the configured provider
	HealthPath = "/healthz"

	// DefaultMaxBodyBytes limits the size of a generate request body
	DefaultMaxBodyBytes int64 = 1 << 20
)

// Failure headlines. The orchestrator shows the error field to the user, so
// these stay short; the underlying cause goes into details.
const (
	msgUpstreamFailure = "failed to contact AI provider"
	msgUnhandledFault  = "internal server error"
)

// GenerationRequest is the body of POST /api/generate.
type GenerationRequest struct {
	Prompt string `json:"prompt"`
}

// GenerationResult is the outcome of one Handle call. Either Text is set,
// or Error and Details are.
type GenerationResult struct {
	Text    string
	Error   string
	Details string
	Kind    ai.ErrorKind
}

// OK reports whether the result carries generated text.
func (r GenerationResult) OK() bool {
	return r.Kind == ai.KindNone && r.Text != ""
}

type successResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Provider      ai.Provider
	Logger        *logging.SecureLogger
	Alerter       Alerter       // optional
	AlertCooldown time.Duration // minimum gap between two alerts
	MaxBodyBytes  int64
}

// Handler relays prompts to a Provider. It keeps no per-request state, so
// one Handler serves any number of concurrent requests.
type Handler struct {
	provider     ai.Provider
	log          *logging.SecureLogger
	alerts       *alertGate
	maxBodyBytes int64
}

// NewHandler creates a Handler
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	return &Handler{
		provider:     cfg.Provider,
		log:          log,
		alerts:       newAlertGate(cfg.Alerter, cfg.AlertCooldown, log),
		maxBodyBytes: maxBody,
	}
}

// Handle makes exactly one upstream call for req. It never panics: a panic
// anywhere below becomes an unhandled-fault result.
func (h *Handler) Handle(ctx context.Context, req GenerationRequest) (result GenerationResult) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Str("panic", fmt.Sprint(r)).Msg("Recovered from panic in generation handler")
			result = faultResult(fmt.Sprint(r))
		}
	}()

	gen, err := h.provider.Generate(ctx, req.Prompt)
	if err != nil {
		return h.failure(err)
	}
	if gen == nil || gen.Text == "" {
		return h.failure(ai.ErrEmptyResponse)
	}

	if gen.Stats != nil {
		h.log.Debug().
			Str("provider", gen.Stats.Provider).
			Str("model", gen.Stats.Model).
			Int("input_tokens", gen.Stats.InputTokens).
			Int("output_tokens", gen.Stats.OutputTokens).
			Float64("duration_seconds", gen.Stats.DurationSeconds).
			Msg("Generation completed")
	}

	return GenerationResult{Text: gen.Text}
}

func (h *Handler) failure(err error) GenerationResult {
	kind := ai.Kind(err)
	result := GenerationResult{
		Error:   failureMessage(kind),
		Details: ai.Details(err),
		Kind:    kind,
	}

	h.log.Error().
		Str("kind", string(kind)).
		Bool("rate_limited", ai.IsRateLimited(err)).
		Bool("overloaded", ai.IsOverloaded(err)).
		Err(err).
		Msg("Generation failed")

	if kind == ai.KindConfiguration {
		h.alerts.notify(notification.Alert{
			Kind:     string(kind),
			Message:  result.Error,
			Details:  result.Details,
			Provider: h.provider.GetProviderName(),
		})
	}

	return result
}

func failureMessage(kind ai.ErrorKind) string {
	switch kind {
	case ai.KindConfiguration:
		return ai.ErrMissingAPIKey.Error()
	case ai.KindEmptyResponse:
		return ai.ErrEmptyResponse.Error()
	case ai.KindTransport, ai.KindUpstream:
		return msgUpstreamFailure
	default:
		return msgUnhandledFault
	}
}

func faultResult(details string) GenerationResult {
	return GenerationResult{
		Error:   msgUnhandledFault,
		Details: internalerrors.SanitizeString(details),
		Kind:    ai.KindUnhandled,
	}
}

// ServeHTTP serves POST /api/generate.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != GeneratePath {
		writeJSONError(w, http.StatusNotFound, "Unknown endpoint")
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var result GenerationResult
	var req GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		result = faultResult(fmt.Sprintf("invalid request body: %v", err))
	} else {
		result = h.Handle(r.Context(), req)
	}

	writeResult(w, result)
}

func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	info := h.provider.GetModelInfo()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"provider": h.provider.GetProviderName(),
		"model":    info["model"],
		"has_key":  info["has_key"],
	})
}

// Routes returns the complete HTTP surface of the proxy.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(GeneratePath, h)
	mux.HandleFunc(HealthPath, h.serveHealth)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Unknown endpoint")
	})

	return WithCORS(WithRecovery(WithRequestLog(mux, h.log), h.log))
}

// Close waits for in-flight alerts.
func (h *Handler) Close() {
	h.alerts.wait()
}

func writeResult(w http.ResponseWriter, result GenerationResult) {
	if result.OK() {
		writeJSON(w, http.StatusOK, successResponse{Text: result.Text})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   result.Error,
		Details: result.Details,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
