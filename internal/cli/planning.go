package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// addPlanCommands registers direct CLI access to the core operations,
// bypassing Telegram.
func addPlanCommands(rootCmd *cobra.Command, app *App) {
	planCmd := &cobra.Command{
		Use:   "plan TICKER...",
		Short: "Generate trading plans for the given tickers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assistant == nil {
				return fmt.Errorf("assistant unavailable: check openai credentials and database path")
			}
			out, err := app.Assistant.CreatePlans(cmd.Context(), args)
			if err != nil {
				return err
			}
			cmd.Println(out)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status TICKER...",
		Short: "Show last price and latest plan status for the given tickers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assistant == nil {
				return fmt.Errorf("assistant unavailable: check openai credentials and database path")
			}
			out, err := app.Assistant.Status(cmd.Context(), args)
			if err != nil {
				return err
			}
			cmd.Println(out)
			return nil
		},
	}

	trackCmd := &cobra.Command{
		Use:   "track on|off TICKER",
		Short: "Toggle tracking of a ticker's latest plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assistant == nil {
				return fmt.Errorf("assistant unavailable: check openai credentials and database path")
			}
			if args[0] != "on" && args[0] != "off" {
				return fmt.Errorf("first argument must be 'on' or 'off'")
			}
			out, err := app.Assistant.Track(cmd.Context(), args[1], args[0] == "on")
			if out != "" {
				cmd.Println(out)
				return nil
			}
			return err
		},
	}

	rootCmd.AddCommand(planCmd, statusCmd, trackCmd)
}
