package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tinkoff-assistant/internal/telegram"
)

// addRunCommand registers the long-running Telegram bot loop.
func addRunCommand(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the Telegram bot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assistant == nil {
				return fmt.Errorf("assistant unavailable: check openai credentials and database path")
			}
			if app.Config.Credentials.Telegram.BotToken == "" {
				return fmt.Errorf("telegram bot token is not configured")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bot := telegram.NewBot(
				app.Config.Credentials.Telegram.BotToken,
				app.Config.Credentials.Telegram.ChatID,
				app.Logger,
			)
			commands := telegram.NewCommands(app.Assistant, app.Config.Watchlist.Tickers, app.Logger)

			app.Logger.Info().
				Strs("watchlist", commands.Watchlist()).
				Msg("Telegram polling started")
			bot.Poll(ctx, commands.Handle)

			app.Logger.Info().Msg("Shutting down")
			return nil
		},
	})
}
