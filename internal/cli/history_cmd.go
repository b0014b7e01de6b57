package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/repository"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed sessions, newest first",
		Args:  cobra.NoArgs,
	}
	kind := addKindFlag(cmd.Flags())
	since := addSinceFlag(cmd.Flags(), app.now)
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries (0 for all)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}
		entries, err := app.Progress.History(cmd.Context(), repository.HistoryFilter{
			Kind:  kind.Kind(),
			Since: since.at,
			Limit: limit,
		})
		if err != nil {
			return err
		}
		views := make([]contract.HistoryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, contract.NewHistoryView(e))
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(views, app.now()))
		return nil
	}
	return cmd
}
