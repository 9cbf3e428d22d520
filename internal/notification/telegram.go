// Package notification sends operator alerts for proxy failures that need a
// human, such as a missing upstream credential.
package notification

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	internalerrors "github.com/olegiv/skripsi-ai-go/internal/errors"
)

const (
	maxMessageLength = 4096
	// minMessageInterval is the minimum time between messages to the channel
	minMessageInterval = 1 * time.Second
	// maxSendAttempts is the number of attempts per message part
	maxSendAttempts = 3
	// baseRetryDelay is the initial delay between attempts (doubles each time)
	baseRetryDelay = 2 * time.Second
	// maxDetailsLength keeps a long upstream body from dominating the alert
	maxDetailsLength = 1000
)

// Alert describes one operator-facing event.
type Alert struct {
	Kind     string // failure class, e.g. "configuration"
	Message  string
	Details  string
	Provider string
}

// messageSender is the part of *tgbotapi.BotAPI the alerter needs.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramAlerter posts alerts to a Telegram channel
type TelegramAlerter struct {
	sender          messageSender
	channel         int64
	hostname        string
	username        string
	mu              sync.Mutex
	lastMessageTime time.Time
	sleep           func(ctx context.Context, d time.Duration) error
}

// NewTelegramAlerter creates an alerter for the given bot and channel
func NewTelegramAlerter(botToken string, channel int64) (*TelegramAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		// The token is part of the API URL
		return nil, internalerrors.Wrapf(err, "failed to create Telegram bot")
	}

	alerter := newTelegramAlerter(bot, channel)
	alerter.username = bot.Self.UserName
	return alerter, nil
}

func newTelegramAlerter(sender messageSender, channel int64) *TelegramAlerter {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &TelegramAlerter{
		sender:   sender,
		channel:  channel,
		hostname: hostname,
		sleep:    sleepContext,
	}
}

// Alert formats a and sends it to the channel. Concurrent calls are
// serialized so the channel rate limit holds.
func (t *TelegramAlerter) Alert(ctx context.Context, a Alert) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, part := range splitMessage(t.formatAlert(a, time.Now())) {
		if err := t.waitForRateLimit(ctx); err != nil {
			return err
		}

		msgConfig := tgbotapi.NewMessage(t.channel, part)
		msgConfig.ParseMode = "MarkdownV2"

		if err := t.sendWithRetry(ctx, msgConfig); err != nil {
			return err
		}

		t.lastMessageTime = time.Now()
	}

	return nil
}

// formatAlert renders a as MarkdownV2
func (t *TelegramAlerter) formatAlert(a Alert, at time.Time) string {
	var msg strings.Builder

	msg.WriteString("🚨 *Thesis Wizard Proxy Alert*\n")
	msg.WriteString(fmt.Sprintf("🖥 Host\\: %s\n", escapeMarkdown(t.hostname)))
	msg.WriteString(fmt.Sprintf("📅 Date\\: %s\n", escapeMarkdown(at.Format("2006-01-02 15:04:05"))))
	if a.Provider != "" {
		msg.WriteString(fmt.Sprintf("🤖 Provider\\: %s\n", escapeMarkdown(a.Provider)))
	}
	if a.Kind != "" {
		msg.WriteString(fmt.Sprintf("🏷 Kind\\: %s\n", escapeMarkdown(a.Kind)))
	}
	msg.WriteString("\n")

	msg.WriteString("❗ *Error*\n")
	msg.WriteString(escapeMarkdown(internalerrors.SanitizeString(a.Message)))
	msg.WriteString("\n")

	if a.Details != "" && a.Details != a.Message {
		details := internalerrors.SanitizeString(a.Details)
		if len(details) > maxDetailsLength {
			details = details[:maxDetailsLength] + "..."
		}
		msg.WriteString("\n📄 *Details*\n")
		msg.WriteString(escapeMarkdown(details))
		msg.WriteString("\n")
	}

	return msg.String()
}

// waitForRateLimit ensures the minimum interval between messages
func (t *TelegramAlerter) waitForRateLimit(ctx context.Context) error {
	if t.lastMessageTime.IsZero() {
		return nil
	}

	elapsed := time.Since(t.lastMessageTime)
	if elapsed < minMessageInterval {
		return t.sleep(ctx, minMessageInterval-elapsed)
	}
	return nil
}

// sendWithRetry sends a message with exponential backoff
func (t *TelegramAlerter) sendWithRetry(ctx context.Context, msgConfig tgbotapi.MessageConfig) error {
	var lastErr error

	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		_, err := t.sender.Send(msgConfig)
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt == maxSendAttempts {
			break
		}

		delay := baseRetryDelay * time.Duration(1<<(attempt-1)) // 2s, 4s
		if isRateLimitError(err) {
			if retryAfter := extractRetryAfter(err); retryAfter > 0 {
				delay = time.Duration(retryAfter) * time.Second
			}
		}

		if err := t.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return internalerrors.Wrapf(lastErr, "failed to send alert after %d attempts", maxSendAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRateLimitError checks if the error is a Telegram rate limit error (429)
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") || strings.Contains(errStr, "Too Many Requests")
}

// extractRetryAfter reads "retry after N" from a rate limit error
func extractRetryAfter(err error) int {
	if err == nil {
		return 0
	}

	errStr := err.Error()
	if idx := strings.Index(strings.ToLower(errStr), "retry after "); idx != -1 {
		remaining := errStr[idx+len("retry after "):]
		var seconds int
		if _, err := fmt.Sscanf(remaining, "%d", &seconds); err == nil {
			return seconds
		}
	}

	return 30
}

// splitMessage splits a long message on line boundaries
func splitMessage(message string) []string {
	if len(message) <= maxMessageLength {
		return []string{message}
	}

	var messages []string
	var currentMsg strings.Builder

	for _, line := range strings.Split(message, "\n") {
		if currentMsg.Len()+len(line)+1 > maxMessageLength {
			if currentMsg.Len() > 0 {
				messages = append(messages, currentMsg.String())
				currentMsg.Reset()
			}

			if len(line) > maxMessageLength {
				for i := 0; i < len(line); i += maxMessageLength {
					end := min(i+maxMessageLength, len(line))
					messages = append(messages, line[i:end])
				}
				continue
			}
		}

		currentMsg.WriteString(line)
		currentMsg.WriteString("\n")
	}

	if currentMsg.Len() > 0 {
		messages = append(messages, currentMsg.String())
	}

	return messages
}

// escapeMarkdown escapes special characters for Telegram MarkdownV2
func escapeMarkdown(text string) string {
	// See: https://core.telegram.org/bots/api#markdownv2-style
	specialChars := []string{
		"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!", ":",
	}

	result := text
	for _, char := range specialChars {
		result = strings.ReplaceAll(result, char, "\\"+char)
	}

	return result
}

// GetBotInfo returns information about the bot
func (t *TelegramAlerter) GetBotInfo() map[string]interface{} {
	return map[string]interface{}{
		"username": t.username,
		"channel":  t.channel,
		"hostname": t.hostname,
	}
}
