package config

import (
	"crypto/subtle"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/olegiv/skripsi-ai-go/internal/ai"
	"github.com/spf13/viper"
)

// CLIOptions holds command-line argument overrides
type CLIOptions struct {
	Host        string // -host: listen address
	Port        int    // -port: listen port
	Provider    string // -provider: upstream provider (gemini, anthropic)
	ShowHelp    bool   // -help: show usage
	ShowVersion bool   // -version: show version
}

// ParseCLI parses os.Args and returns CLIOptions. It exits on a bad flag.
func ParseCLI() *CLIOptions {
	opts, err := ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	return opts
}

// ParseArgs parses args into CLIOptions. Usage and errors go to output.
func ParseArgs(args []string, output io.Writer) (*CLIOptions, error) {
	opts := &CLIOptions{}
	fs := newFlagSet(opts, output)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// PrintUsage prints the command-line usage information
func PrintUsage(output io.Writer) {
	newFlagSet(&CLIOptions{}, output).Usage()
}

func newFlagSet(opts *CLIOptions, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("skripsi-proxy", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.Host, "host", "", "Listen host (overrides HOST)")
	fs.IntVar(&opts.Port, "port", 0, "Listen port (overrides PORT)")
	fs.StringVar(&opts.Provider, "provider", "", "Upstream provider: gemini, anthropic (overrides LLM_PROVIDER)")
	fs.BoolVar(&opts.ShowHelp, "help", false, "Show usage information")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(output, "Thesis Wizard Proxy - relays generation requests to the AI provider\n\n")
		_, _ = fmt.Fprintf(output, "Usage: skripsi-proxy [options]\n\n")
		_, _ = fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  skripsi-proxy -port 8080\n")
		_, _ = fmt.Fprintf(output, "  skripsi-proxy -provider anthropic\n")
		_, _ = fmt.Fprintf(output, "\nEnvironment variables can be set in .env file or exported directly.\n")
		_, _ = fmt.Fprintf(output, "CLI arguments override environment variables.\n")
	}

	return fs
}

// Config holds the proxy configuration
type Config struct {
	// LLM Provider Selection
	LLMProvider string // "gemini" (default) or "anthropic"

	// Gemini Settings (used when LLMProvider = "gemini")
	GeminiAPIKey  string // may be empty: reported per request, not at startup
	GeminiModel   string
	GeminiBaseURL string

	// Anthropic/Claude Settings (used when LLMProvider = "anthropic")
	AnthropicAPIKey string
	ClaudeModel     string

	// Server
	Host         string
	Port         int
	MaxBodyBytes int64

	// Telegram alerts (optional)
	TelegramBotToken      string
	TelegramAlertsChannel int64
	AlertCooldownMinutes  int

	// Application
	LogLevel string
	LogDir   string

	// Proxy
	HTTPProxy  string
	HTTPSProxy string

	// AI Settings
	AITimeoutSeconds int // 0 disables the per-call timeout
	AIMaxTokens      int
}

// Load loads configuration from .env file and environment variables
// For CLI overrides, use LoadWithCLI instead
func Load() (*Config, error) {
	return LoadWithCLI(nil)
}

// LoadWithCLI loads configuration with CLI argument overrides
// Priority: CLI args > OS environment variables > .env file
func LoadWithCLI(cli *CLIOptions) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// godotenv.Load never overrides variables that are already set
	_ = godotenv.Load()

	setDefaults(v)

	config := &Config{
		LLMProvider:     strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		GeminiAPIKey:    strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		GeminiBaseURL:   v.GetString("GEMINI_BASE_URL"),
		AnthropicAPIKey: strings.TrimSpace(v.GetString("ANTHROPIC_API_KEY")),
		ClaudeModel:     v.GetString("CLAUDE_MODEL"),

		Host:         v.GetString("HOST"),
		Port:         v.GetInt("PORT"),
		MaxBodyBytes: v.GetInt64("MAX_BODY_BYTES"),

		TelegramBotToken:      v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramAlertsChannel: v.GetInt64("TELEGRAM_CHANNEL_ALERTS_ID"),
		AlertCooldownMinutes:  v.GetInt("ALERT_COOLDOWN_MINUTES"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogDir:   v.GetString("LOG_DIR"),

		HTTPProxy:        v.GetString("HTTP_PROXY"),
		HTTPSProxy:       v.GetString("HTTPS_PROXY"),
		AITimeoutSeconds: v.GetInt("AI_TIMEOUT_SECONDS"),
		AIMaxTokens:      v.GetInt("AI_MAX_TOKENS"),
	}

	// Apply CLI overrides (highest priority)
	if cli != nil {
		if cli.Host != "" {
			config.Host = cli.Host
		}
		if cli.Port != 0 {
			config.Port = cli.Port
		}
		if cli.Provider != "" {
			config.LLMProvider = strings.ToLower(cli.Provider)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("CLAUDE_MODEL", "claude-sonnet-4-5-20250929")

	v.SetDefault("HOST", "")
	v.SetDefault("PORT", 3000)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)

	v.SetDefault("ALERT_COOLDOWN_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "./logs")

	v.SetDefault("AI_TIMEOUT_SECONDS", 0)
	v.SetDefault("AI_MAX_TOKENS", 8000)
}

var telegramTokenRegex = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)

// Validate validates the configuration. A missing API key is not an error:
// the proxy starts and answers each request with a configuration error.
func (c *Config) Validate() error {
	if err := c.validateLLMProvider(); err != nil {
		return err
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535 (got: %d)", c.Port)
	}
	if c.MaxBodyBytes < 1024 || c.MaxBodyBytes > 10<<20 {
		return fmt.Errorf("MAX_BODY_BYTES must be between 1024 and 10485760")
	}

	if err := c.validateAlerts(); err != nil {
		return err
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	for name, proxyURL := range map[string]string{"HTTP_PROXY": c.HTTPProxy, "HTTPS_PROXY": c.HTTPSProxy} {
		if proxyURL != "" && !isHTTPURL(proxyURL) {
			return fmt.Errorf("%s must be an http:// or https:// URL", name)
		}
	}

	if c.AITimeoutSeconds < 0 || c.AITimeoutSeconds > 600 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be between 0 and 600")
	}
	if c.AIMaxTokens < 1000 || c.AIMaxTokens > 16000 {
		return fmt.Errorf("AI_MAX_TOKENS must be between 1000 and 16000")
	}

	return nil
}

func (c *Config) validateAlerts() error {
	if c.TelegramBotToken == "" {
		if c.TelegramAlertsChannel != 0 {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_CHANNEL_ALERTS_ID is set")
		}
		return nil
	}

	if !telegramTokenRegex.MatchString(c.TelegramBotToken) {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN has invalid format (expected: 'number:token')")
	}
	if c.TelegramAlertsChannel == 0 {
		return fmt.Errorf("TELEGRAM_CHANNEL_ALERTS_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	if c.TelegramAlertsChannel > -100 {
		return fmt.Errorf("TELEGRAM_CHANNEL_ALERTS_ID must be a supergroup/channel ID (starts with -100)")
	}
	if c.AlertCooldownMinutes < 1 || c.AlertCooldownMinutes > 10080 {
		return fmt.Errorf("ALERT_COOLDOWN_MINUTES must be between 1 and 10080")
	}

	return nil
}

// constantTimePrefixMatch checks if s starts with prefix using constant-time comparison.
// Returns false if s is shorter than prefix.
func constantTimePrefixMatch(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s[:len(prefix)]), []byte(prefix)) == 1
}

// validateLLMProvider validates LLM provider configuration
func (c *Config) validateLLMProvider() error {
	if !ai.IsValidProviderType(c.LLMProvider) {
		return fmt.Errorf("LLM_PROVIDER must be 'gemini' or 'anthropic' (got: %s)", c.LLMProvider)
	}

	switch ai.ProviderType(c.LLMProvider) {
	case ai.ProviderGemini:
		if c.GeminiModel == "" {
			return fmt.Errorf("GEMINI_MODEL is required when LLM_PROVIDER=gemini")
		}
		if !isHTTPURL(c.GeminiBaseURL) {
			return fmt.Errorf("GEMINI_BASE_URL must start with 'http://' or 'https://'")
		}

	case ai.ProviderAnthropic:
		if c.AnthropicAPIKey != "" && !constantTimePrefixMatch(c.AnthropicAPIKey, "sk-ant-") {
			return fmt.Errorf("ANTHROPIC_API_KEY must start with 'sk-ant-'")
		}
		if c.ClaudeModel == "" {
			return fmt.Errorf("CLAUDE_MODEL is required when LLM_PROVIDER=anthropic")
		}
	}

	return nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// HasAlertsChannel returns true if Telegram alerts are configured
func (c *Config) HasAlertsChannel() bool {
	return c.TelegramBotToken != "" && c.TelegramAlertsChannel != 0
}

// AlertCooldown returns the minimum gap between two alerts
func (c *Config) AlertCooldown() time.Duration {
	return time.Duration(c.AlertCooldownMinutes) * time.Minute
}

// HasAPIKey reports whether the selected provider has a credential
func (c *Config) HasAPIKey() bool {
	if c.IsAnthropic() {
		return c.AnthropicAPIKey != ""
	}
	return c.GeminiAPIKey != ""
}

// GetProxyURL returns the appropriate proxy URL for HTTP/HTTPS requests
func (c *Config) GetProxyURL(isHTTPS bool) string {
	if isHTTPS && c.HTTPSProxy != "" {
		return c.HTTPSProxy
	}
	if c.HTTPProxy != "" {
		return c.HTTPProxy
	}
	return ""
}

// IsAnthropic returns true if the LLM provider is Anthropic
func (c *Config) IsAnthropic() bool {
	return c.LLMProvider == string(ai.ProviderAnthropic)
}

// GetLLMModel returns the model name for the current LLM provider
func (c *Config) GetLLMModel() string {
	if c.IsAnthropic() {
		return c.ClaudeModel
	}
	return c.GeminiModel
}

// AIConfig returns the provider settings. Both supported upstreams are
// HTTPS endpoints.
func (c *Config) AIConfig() ai.Config {
	return ai.Config{
		Provider:        ai.ProviderType(c.LLMProvider),
		GeminiAPIKey:    c.GeminiAPIKey,
		GeminiModel:     c.GeminiModel,
		GeminiBaseURL:   c.GeminiBaseURL,
		AnthropicAPIKey: c.AnthropicAPIKey,
		ClaudeModel:     c.ClaudeModel,
		MaxTokens:       c.AIMaxTokens,
		ProxyURL:        c.GetProxyURL(true),
		TimeoutSeconds:  c.AITimeoutSeconds,
	}
}
