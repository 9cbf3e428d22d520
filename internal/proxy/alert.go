package proxy

import (
	"context"
	"sync"
	"time"

	"github.com/olegiv/skripsi-ai-go/internal/logging"
	"github.com/olegiv/skripsi-ai-go/internal/notification"
)

const (
	// DefaultAlertCooldown is the minimum gap between two operator alerts
	DefaultAlertCooldown = time.Hour

	alertTimeout = 30 * time.Second
)

// Alerter notifies an operator. *notification.TelegramAlerter implements it.
type Alerter interface {
	Alert(ctx context.Context, a notification.Alert) error
}

// alertGate sends alerts in the background, at most one per cooldown. A nil
// gate drops everything.
type alertGate struct {
	alerter  Alerter
	cooldown time.Duration
	log      *logging.SecureLogger
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
	wg   sync.WaitGroup
}

func newAlertGate(alerter Alerter, cooldown time.Duration, log *logging.SecureLogger) *alertGate {
	if alerter == nil {
		return nil
	}
	if cooldown <= 0 {
		cooldown = DefaultAlertCooldown
	}
	return &alertGate{
		alerter:  alerter,
		cooldown: cooldown,
		log:      log,
		now:      time.Now,
	}
}

func (g *alertGate) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if !g.last.IsZero() && now.Sub(g.last) < g.cooldown {
		return false
	}
	g.last = now
	return true
}

// notify never blocks the request path; failures are only logged.
func (g *alertGate) notify(a notification.Alert) {
	if g == nil || !g.allow() {
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()

		if err := g.alerter.Alert(ctx, a); err != nil {
			g.log.Warn().Err(err).Msg("Failed to send operator alert")
			return
		}
		g.log.Info().Str("kind", a.Kind).Msg("Operator alert sent")
	}()
}

func (g *alertGate) wait() {
	if g == nil {
		return
	}
	g.wg.Wait()
}
