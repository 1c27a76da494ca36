// Package cli provides the command-line interface for the trading assistant.
package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tinkoff-assistant/internal/agents"
	"tinkoff-assistant/internal/assistant"
	"tinkoff-assistant/internal/config"
	"tinkoff-assistant/internal/logging"
	"tinkoff-assistant/internal/market"
	"tinkoff-assistant/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Assistant *assistant.Assistant
	Store     store.PlanStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	provider := market.NewTinkoffClient(market.TinkoffConfig{
		Token:   cfg.Credentials.Tinkoff.Token,
		Sandbox: cfg.Market.Sandbox,
		Timeout: time.Duration(cfg.Market.TimeoutSeconds) * time.Second,
	})
	resolver := market.NewResolver(provider, logger)
	fetcher := market.NewFetcher(provider, cfg.Market.CandleDays, logger)

	planStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, plan commands will be unavailable")
	} else {
		app.Store = planStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	var llm agents.LLMClient
	if cfg.Credentials.OpenAI.APIKey != "" {
		llm = agents.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Pipeline.Model)
		logger.Debug().Str("model", cfg.Pipeline.Model).Msg("OpenAI LLM client initialized")
	}

	if app.Store != nil && llm != nil {
		pipeline := agents.NewPipeline(llm, logger)
		app.Assistant = assistant.New(resolver, fetcher, pipeline, app.Store,
			assistant.Options{
				TailRows:    cfg.Pipeline.TailRows,
				Concurrency: cfg.Pipeline.Concurrency,
			}, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "tassistant",
		Short: "Tinkoff trading assistant - AI-generated trading plans over Telegram",
		Long: `Tinkoff trading assistant watches a list of tickers, derives technical
indicators from recent candle history and synthesizes short-lived trading
plans through a multi-stage LLM pipeline.

Plans are persisted with a lifecycle status and can be queried or put
under tracking later, either from this CLI or through the Telegram bot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tinkoff-assistant)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addRunCommand(rootCmd, app)
	addPlanCommands(rootCmd, app)
	addVersionCommand(rootCmd)

	return rootCmd
}

func addVersionCommand(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("tassistant %s\n", Version)
		},
	})
}
