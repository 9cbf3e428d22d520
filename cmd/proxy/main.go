package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/olegiv/go-logger"
	"github.com/olegiv/skripsi-ai-go/internal/ai"
	"github.com/olegiv/skripsi-ai-go/internal/config"
	internalerrors "github.com/olegiv/skripsi-ai-go/internal/errors"
	"github.com/olegiv/skripsi-ai-go/internal/logging"
	"github.com/olegiv/skripsi-ai-go/internal/notification"
	"github.com/olegiv/skripsi-ai-go/internal/proxy"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

// Version information - injected at build time via ldflags
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI arguments first
	cli := config.ParseCLI()

	if cli.ShowHelp {
		config.PrintUsage(os.Stdout)
		return exitSuccess
	}

	if cli.ShowVersion {
		fmt.Printf("skripsi-proxy %s\n", version)
		if gitCommit != "unknown" {
			fmt.Printf("  commit: %s\n", gitCommit)
		}
		if buildTime != "unknown" {
			fmt.Printf("  built:  %s\n", buildTime)
		}
		return exitSuccess
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration with CLI overrides
	cfg, err := config.LoadWithCLI(cli)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return exitFailure
	}

	// Every field written through log passes credential redaction
	baseLog := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		LogDir:     cfg.LogDir,
		Filename:   "proxy.log",
		MaxSizeMB:  10,
		MaxBackups: 5,
		Console:    true,
	})
	log := logging.NewSecure(baseLog)
	defer func() {
		if err := log.Close(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to close logger: %v\n", err)
		}
	}()

	log.Info().Str("version", version).Msg("Starting Thesis Wizard Proxy")

	if err := runProxy(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("Proxy stopped with error")
		return exitFailure
	}

	log.Info().Msg("Proxy stopped")
	return exitSuccess
}

func runProxy(ctx context.Context, cfg *config.Config, log *logging.SecureLogger) error {
	// 1. Upstream provider
	provider, err := ai.NewProvider(cfg.AIConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize AI provider: %w", err)
	}

	modelInfo := provider.GetModelInfo()
	event := log.Info().
		Str("provider", provider.GetProviderName()).
		Str("model", cfg.GetLLMModel()).
		Bool("has_key", cfg.HasAPIKey()).
		Int("timeout_s", cfg.AITimeoutSeconds)
	if cfg.HasAPIKey() {
		key := cfg.GeminiAPIKey
		if cfg.IsAnthropic() {
			key = cfg.AnthropicAPIKey
		}
		event = event.Str("key", internalerrors.MaskCredential(key))
	}
	if baseURL, ok := modelInfo["base_url"].(string); ok {
		event = event.Str("base_url", baseURL)
	}
	event.Msg("AI provider initialized")

	if !cfg.HasAPIKey() {
		log.Warn().Msg("No API key configured; every generation request will fail until one is set")
	}

	// 2. Optional Telegram alerts for configuration errors
	var alerter proxy.Alerter
	if cfg.HasAlertsChannel() {
		telegram, err := notification.NewTelegramAlerter(cfg.TelegramBotToken, cfg.TelegramAlertsChannel)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram alerter: %w", err)
		}
		botInfo := telegram.GetBotInfo()
		log.Info().
			Str("username", fmt.Sprint(botInfo["username"])).
			Dur("cooldown", cfg.AlertCooldown()).
			Msg("Telegram alerts enabled")
		alerter = telegram
	}

	// 3. HTTP surface
	handler := proxy.NewHandler(proxy.HandlerConfig{
		Provider:      provider,
		Logger:        log,
		Alerter:       alerter,
		AlertCooldown: cfg.AlertCooldown(),
		MaxBodyBytes:  cfg.MaxBodyBytes,
	})

	server, err := proxy.NewServer(proxy.Options{Host: cfg.Host, Port: cfg.Port}, handler)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info().Str("addr", server.Addr()).Msg("Listening for generation requests")
	return server.Start(ctx)
}
