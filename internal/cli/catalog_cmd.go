package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/contract"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"ls"},
		Short:   "List available activities",
		Args:    cobra.NoArgs,
	}
	kind := addKindFlag(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		activities, err := app.Catalog.List(ctx, kind.Kind())
		if err != nil {
			return err
		}
		premium := app.premium(ctx)
		views := make([]contract.ActivityView, 0, len(activities))
		for _, a := range activities {
			views = append(views, contract.NewActivityView(a, premium))
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog(views))
		return nil
	}
	return cmd
}
