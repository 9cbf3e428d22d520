// Package logging provides credential-redacting log events for the proxy and
// the wizard client.
package logging

import (
	"io"
	"time"

	"github.com/olegiv/go-logger"
	internalerrors "github.com/olegiv/skripsi-ai-go/internal/errors"
	"github.com/rs/zerolog"
)

// eventSource is satisfied by both *logger.Logger and *zerolog.Logger.
type eventSource interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
}

// SecureLogger sanitizes every string and error value before it reaches the
// underlying logger. The Gemini key is part of the upstream URL, so any
// transport error would otherwise write it to disk.
type SecureLogger struct {
	log   eventSource
	close func() error
}

// NewSecure wraps the rotating process logger.
func NewSecure(log *logger.Logger) *SecureLogger {
	return &SecureLogger{log: log, close: log.Close}
}

// NewSecureWriter builds a SecureLogger writing JSON lines to w at the given
// level. Used by the wizard CLI and by tests.
func NewSecureWriter(w io.Writer, level zerolog.Level) *SecureLogger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &SecureLogger{log: &zl}
}

// Nop returns a SecureLogger that discards everything.
func Nop() *SecureLogger {
	zl := zerolog.Nop()
	return &SecureLogger{log: &zl}
}

// SecureEvent wraps a zerolog Event to provide sanitizing field setters.
type SecureEvent struct {
	event *zerolog.Event
}

// Debug starts a debug-level event.
func (s *SecureLogger) Debug() *SecureEvent {
	return &SecureEvent{event: s.log.Debug()}
}

// Info starts an info-level event.
func (s *SecureLogger) Info() *SecureEvent {
	return &SecureEvent{event: s.log.Info()}
}

// Warn starts a warn-level event.
func (s *SecureLogger) Warn() *SecureEvent {
	return &SecureEvent{event: s.log.Warn()}
}

// Error starts an error-level event.
func (s *SecureLogger) Error() *SecureEvent {
	return &SecureEvent{event: s.log.Error()}
}

// Close closes the underlying logger, if it has anything to close.
func (s *SecureLogger) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Str adds a sanitized string field.
func (e *SecureEvent) Str(key, val string) *SecureEvent {
	e.event.Str(key, internalerrors.SanitizeString(val))
	return e
}

// Int adds an integer field.
func (e *SecureEvent) Int(key string, val int) *SecureEvent {
	e.event.Int(key, val)
	return e
}

// Float64 adds a float64 field.
func (e *SecureEvent) Float64(key string, val float64) *SecureEvent {
	e.event.Float64(key, val)
	return e
}

// Bool adds a boolean field.
func (e *SecureEvent) Bool(key string, val bool) *SecureEvent {
	e.event.Bool(key, val)
	return e
}

// Dur adds a duration field.
func (e *SecureEvent) Dur(key string, val time.Duration) *SecureEvent {
	e.event.Dur(key, val)
	return e
}

// Err adds a sanitized error field. A nil error is skipped.
func (e *SecureEvent) Err(err error) *SecureEvent {
	if err != nil {
		e.event.Err(internalerrors.SanitizeError(err))
	}
	return e
}

// Msg sends the event with a sanitized message.
func (e *SecureEvent) Msg(msg string) {
	e.event.Msg(internalerrors.SanitizeString(msg))
}

// Msgf sends a formatted event. Only string and error arguments are
// sanitized; other types pass through unchanged.
func (e *SecureEvent) Msgf(format string, v ...interface{}) {
	sanitizedArgs := make([]interface{}, len(v))
	for i, arg := range v {
		switch a := arg.(type) {
		case string:
			sanitizedArgs[i] = internalerrors.SanitizeString(a)
		case error:
			sanitizedArgs[i] = internalerrors.SanitizeError(a)
		default:
			sanitizedArgs[i] = arg
		}
	}
	e.event.Msgf(format, sanitizedArgs...)
}
