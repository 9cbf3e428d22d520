package proxy

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/skripsi-ai-go/internal/ai"
	"github.com/olegiv/skripsi-ai-go/internal/logging"
	"github.com/olegiv/skripsi-ai-go/internal/notification"
	"github.com/stretchr/testify/assert"
)

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []notification.Alert
	err    error
}

func (a *recordingAlerter) Alert(_ context.Context, alert notification.Alert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
	return a.err
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

func TestHandler_AlertsOnConfigurationError(t *testing.T) {
	alerter := &recordingAlerter{}
	h := NewHandler(HandlerConfig{
		Provider: &fakeProvider{err: ai.ErrMissingAPIKey},
		Alerter:  alerter,
	})

	h.Handle(context.Background(), GenerationRequest{Prompt: "a"})
	h.Handle(context.Background(), GenerationRequest{Prompt: "b"})
	h.Close()

	assert.Equal(t, 1, alerter.count(), "second alert falls inside the cooldown")
	assert.Equal(t, "configuration", alerter.alerts[0].Kind)
	assert.Equal(t, "Fake", alerter.alerts[0].Provider)
}

func TestHandler_NoAlertForTransientErrors(t *testing.T) {
	alerter := &recordingAlerter{}
	h := NewHandler(HandlerConfig{
		Provider: &fakeProvider{err: &ai.UpstreamError{StatusCode: http.StatusServiceUnavailable}},
		Alerter:  alerter,
	})

	h.Handle(context.Background(), GenerationRequest{Prompt: "a"})
	h.Close()

	assert.Zero(t, alerter.count())
}

func TestHandler_AlertFailureDoesNotChangeResult(t *testing.T) {
	alerter := &recordingAlerter{err: errors.New("telegram down")}
	h := NewHandler(HandlerConfig{
		Provider: &fakeProvider{err: ai.ErrMissingAPIKey},
		Alerter:  alerter,
	})

	result := h.Handle(context.Background(), GenerationRequest{Prompt: "a"})
	h.Close()

	assert.Equal(t, ai.KindConfiguration, result.Kind)
	assert.Equal(t, 1, alerter.count())
}

func TestAlertGate_Cooldown(t *testing.T) {
	alerter := &recordingAlerter{}
	gate := newAlertGate(alerter, 10*time.Minute, logging.Nop())

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return now }

	assert.True(t, gate.allow())
	assert.False(t, gate.allow())

	now = now.Add(9 * time.Minute)
	assert.False(t, gate.allow())

	now = now.Add(time.Minute)
	assert.True(t, gate.allow())
}

func TestAlertGate_NilIsSafe(t *testing.T) {
	gate := newAlertGate(nil, time.Minute, logging.Nop())
	assert.Nil(t, gate)

	assert.NotPanics(t, func() {
		gate.notify(notification.Alert{Message: "x"})
		gate.wait()
	})
}

func TestNewAlertGate_DefaultCooldown(t *testing.T) {
	gate := newAlertGate(&recordingAlerter{}, 0, logging.Nop())
	assert.Equal(t, DefaultAlertCooldown, gate.cooldown)
}
