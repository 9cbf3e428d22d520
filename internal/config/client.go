package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Client defaults, shared with the wizard CLI flag definitions so an unset
// flag and an unset variable resolve to the same value.
const (
	DefaultProxyURL       = "http://localhost:3000"
	DefaultMaxRetries     = 3
	DefaultClientLogLevel = "warn"
)

// ClientConfig holds the wizard client configuration
type ClientConfig struct {
	ProxyURL              string
	MaxRetries            int
	RequestTimeoutSeconds int // 0 means no per-attempt timeout
	LogLevel              string
}

// LoadClient loads the wizard client configuration from WIZARD_* variables.
// Flags that were set explicitly in flags take precedence; flags may be nil.
func LoadClient(flags *pflag.FlagSet) (*ClientConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("WIZARD")
	v.AutomaticEnv()

	_ = godotenv.Load()

	v.SetDefault("proxy_url", DefaultProxyURL)
	v.SetDefault("max_retries", DefaultMaxRetries)
	v.SetDefault("request_timeout_seconds", 0)
	v.SetDefault("log_level", DefaultClientLogLevel)

	if flags != nil {
		bindings := map[string]string{
			"proxy_url":               "proxy-url",
			"max_retries":             "max-retries",
			"request_timeout_seconds": "timeout",
			"log_level":               "log-level",
		}
		for key, name := range bindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &ClientConfig{
		ProxyURL:              strings.TrimSpace(v.GetString("proxy_url")),
		MaxRetries:            v.GetInt("max_retries"),
		RequestTimeoutSeconds: v.GetInt("request_timeout_seconds"),
		LogLevel:              strings.ToLower(v.GetString("log_level")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	if !isHTTPURL(c.ProxyURL) {
		return fmt.Errorf("WIZARD_PROXY_URL must be an http:// or https:// URL (got: %q)", c.ProxyURL)
	}
	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return fmt.Errorf("WIZARD_MAX_RETRIES must be between 1 and 10")
	}
	if c.RequestTimeoutSeconds < 0 || c.RequestTimeoutSeconds > 600 {
		return fmt.Errorf("WIZARD_REQUEST_TIMEOUT_SECONDS must be between 0 and 600")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("WIZARD_LOG_LEVEL must be one of: debug, info, warn, error")
	}
	return nil
}
