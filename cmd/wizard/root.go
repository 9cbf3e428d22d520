package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/olegiv/skripsi-ai-go/internal/config"
	"github.com/olegiv/skripsi-ai-go/internal/generation"
	"github.com/olegiv/skripsi-ai-go/internal/logging"
	"github.com/olegiv/skripsi-ai-go/internal/wizard"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "skripsi-wizard",
	Short:         "Thesis proposal wizard",
	Long:          "skripsi-wizard drafts thesis titles, problem statements and a chapter-one outline through the generation proxy.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("proxy-url", config.DefaultProxyURL, "Generation proxy base URL (WIZARD_PROXY_URL)")
	flags.Int("max-retries", config.DefaultMaxRetries, "Attempts per generation (WIZARD_MAX_RETRIES)")
	flags.Int("timeout", 0, "Per-attempt timeout in seconds, 0 for none (WIZARD_REQUEST_TIMEOUT_SECONDS)")
	flags.String("log-level", config.DefaultClientLogLevel, "Log level for retry diagnostics on stderr (WIZARD_LOG_LEVEL)")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunner loads the client configuration and wires the proxy client,
// the retry orchestrator and the wizard runner. Effects are printed to
// cmd's output as they happen.
func newRunner(cmd *cobra.Command, opts ...wizard.RunnerOption) (*wizard.Runner, error) {
	cfg, err := config.LoadClient(cmd.Flags())
	if err != nil {
		return nil, err
	}

	client, err := generation.NewProxyClient(generation.ProxyClientConfig{
		BaseURL:        cfg.ProxyURL,
		TimeoutSeconds: cfg.RequestTimeoutSeconds,
	})
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	log := logging.NewSecureWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}, level)

	orchestrator := generation.NewOrchestrator(client, generation.WithLogger(log))

	var runner *wizard.Runner
	show := func(effect wizard.Effect) {
		if text := wizard.Describe(effect, runner.State()); text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(text, "\n"))
		}
	}
	runner = wizard.NewRunner(orchestrator, cfg.MaxRetries, append(opts, wizard.WithEffectHook(show))...)
	return runner, nil
}

// effectError turns a terminal ShowError into a command error so the
// process exits non-zero.
func effectError(effect wizard.Effect) error {
	if e, ok := effect.(wizard.ShowError); ok {
		return fmt.Errorf("%s step failed", e.Step)
	}
	return nil
}
