package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/contract"
)

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "progress",
		Aliases: []string{"status"},
		Short:   "Show streak, readiness levels and unlocked features",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			resp, err := app.Progress.Progress(cmd.Context(), contract.ProgressRequest{Now: &now})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgress(resp, app.RequiredLevel))
			return nil
		},
	}
}

func newAccessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "access <feature>",
		Short: "Check whether a gated feature is unlocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Progress.CheckFeature(cmd.Context(), args[0], app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDecision(args[0], d))
			return nil
		},
	}
}

func newRecommendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Suggest the next clarity reset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Progress.Recommend(cmd.Context(), app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecommendation(r))
			return nil
		},
	}
}
