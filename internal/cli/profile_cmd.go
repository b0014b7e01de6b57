package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/domain"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the local user profile",
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfilePremiumCmd(app),
		newProfileTimezoneCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Profiles.Get(ctx)
			if err != nil {
				return err
			}
			tz := p.Timezone
			if tz == "" {
				tz = formatter.Dim("local")
			}
			lines := []string{
				fmt.Sprintf("Premium   %s", onOff(p.Premium)),
				fmt.Sprintf("Timezone  %s", tz),
			}
			if effective := app.premium(ctx); effective != p.Premium {
				lines = append(lines, formatter.Dim(fmt.Sprintf("premium is %s for this process (SHARPEN_PREMIUM)", onOff(effective))))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("profile", strings.Join(lines, "\n")))
			return nil
		},
	}
}

func newProfilePremiumCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "premium on|off",
		Short:     "Grant or revoke premium access",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var premium bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "yes":
				premium = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			if err := app.updateProfile(cmd.Context(), func(p *domain.UserProfile) { p.Premium = premium }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Premium %s\n", onOff(premium))
			return nil
		},
	}
}

func newProfileTimezoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timezone <IANA name>",
		Short: "Set the timezone used for streak days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := time.LoadLocation(args[0]); err != nil {
				return fmt.Errorf("unknown timezone %q: %w", args[0], err)
			}
			if err := app.updateProfile(cmd.Context(), func(p *domain.UserProfile) { p.Timezone = args[0] }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timezone set to %s. It applies from the next start.\n", args[0])
			return nil
		},
	}
}

func (a *App) updateProfile(ctx context.Context, fn func(p *domain.UserProfile)) error {
	p, err := a.Profiles.Get(ctx)
	if err != nil {
		return err
	}
	fn(p)
	return a.Profiles.Upsert(ctx, p)
}

func onOff(b bool) string {
	if b {
		return formatter.StyleGreen.Render("on")
	}
	return formatter.StyleDim.Render("off")
}
