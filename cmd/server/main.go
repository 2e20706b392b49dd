package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gwi.com/answer-bubbles/internal/config"
	"gwi.com/answer-bubbles/internal/core"
	"gwi.com/answer-bubbles/internal/logging"
	"gwi.com/answer-bubbles/internal/store"
)

var (
	logLevel  string
	ephemeral bool
)

var rootCmd = &cobra.Command{
	Use:           "answer-bubbles",
	Short:         "Ask a text-generation endpoint and get the reply back as answer bubbles",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup("INFO", os.Stderr)
		if err := config.LoadConfig(); err != nil {
			return err
		}
		if ephemeral {
			config.AppConfig.StorageDriver = store.DriverMemory
		}
		level := config.AppConfig.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logging.Setup(level, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep history in memory only")

	rootCmd.AddCommand(newServeCommand(), newAskCommand(), newChatCommand(), newHistoryCommand())
}

// app holds the wired core for one process.
type app struct {
	kv       store.KV
	pipeline *core.QueryPipeline
	closeGen func()
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	// Initialize storage
	kv, err := store.Open(cfg.StorageDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize storage")
	}

	// Initialize LLM generator
	gen, closeGen, err := core.NewGenerator(ctx, cfg)
	if err != nil {
		_ = kv.Close()
		return nil, errors.Wrap(err, "failed to initialize generator")
	}

	// Load history; a corrupt slot starts empty
	history := core.NewHistoryStore(kv, cfg.HistoryKey)
	history.Load(ctx)

	// Initialize query pipeline
	pipeline := core.NewQueryPipeline(history, gen, core.NewConversationLog(),
		core.WithFailureMessage(cfg.FailureMessage))

	return &app{kv: kv, pipeline: pipeline, closeGen: closeGen}, nil
}

func (a *app) Close() {
	a.closeGen()
	if err := a.kv.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing storage")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
