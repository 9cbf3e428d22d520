// Package generation drives proxy calls for the wizard: bounded retries with
// exponential backoff and the per-session busy state.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/skripsi-ai-go/internal/logging"
)

const (
	// DefaultMaxRetries is the default number of attempts per generation
	DefaultMaxRetries = 3

	// BackoffUnit is the wait after the first failed attempt; each further
	// failure doubles it.
	BackoffUnit = time.Second
)

var (
	// ErrNoAttempts is returned when maxRetries leaves no attempt to make.
	ErrNoAttempts = errors.New("no generation attempts allowed: maxRetries must be at least 1")

	// ErrBusy is returned when the session already has a generation in
	// flight.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrInvalidResponse marks a successful reply without text.
	ErrInvalidResponse = errors.New("invalid or empty AI response")

	errAborted = errors.New("generation aborted")
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// TimerSleep is the default Sleeper.
func TimerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff returns the wait after the failed attempt with the given zero-based
// index: 2^attempt units, with no jitter and no ceiling.
func Backoff(attempt int) time.Duration {
	return time.Duration(int64(1)<<uint(attempt)) * BackoffUnit
}

// Orchestrator is the only retry authority between the wizard and the proxy.
type Orchestrator struct {
	caller  Caller
	session *Session
	sleep   Sleeper
	log     *logging.SecureLogger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSleeper replaces the timer used between attempts.
func WithSleeper(sleep Sleeper) Option {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// WithSession attaches an existing session.
func WithSession(session *Session) Option {
	return func(o *Orchestrator) { o.session = session }
}

// WithLogger sets the logger for attempt failures.
func WithLogger(log *logging.SecureLogger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// NewOrchestrator creates an orchestrator over caller with a fresh session.
func NewOrchestrator(caller Caller, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		caller:  caller,
		session: NewSession(),
		sleep:   TimerSleep,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Session returns the session the orchestrator reports into.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Generate calls the proxy up to maxRetries times. After a failed attempt i
// that is not the last it waits Backoff(i); the last failure is returned
// as is. The session is busy for the whole call and never after it.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, maxRetries int) (string, error) {
	if err := o.session.begin(); err != nil {
		return "", err
	}
	defer o.session.release()

	if maxRetries <= 0 {
		o.session.fail(ErrNoAttempts)
		return "", ErrNoAttempts
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		text, err := o.caller.Call(ctx, prompt)
		if err == nil && text == "" {
			err = ErrInvalidResponse
		}
		if err == nil {
			o.session.succeed(text)
			return text, nil
		}

		o.log.Warn().
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Err(err).
			Msg("Generation attempt failed")

		if attempt == maxRetries-1 {
			o.session.fail(err)
			return "", err
		}

		wait := Backoff(attempt)
		o.log.Debug().Dur("backoff", wait).Msg("Waiting before next attempt")

		if sleepErr := o.sleep(ctx, wait); sleepErr != nil {
			err = fmt.Errorf("generation cancelled after attempt %d: %w", attempt+1, sleepErr)
			o.session.fail(err)
			return "", err
		}
	}

	// unreachable: the loop returns on its last iteration
	o.session.fail(ErrNoAttempts)
	return "", ErrNoAttempts
}
