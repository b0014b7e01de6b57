package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
)

func newRecoverCmd(app *App) *cobra.Command {
	var discard, yes bool

	cmd := &cobra.Command{
		Use:   "recover [session-id]",
		Short: "List, finalize or discard sessions interrupted by a previous exit",
		Long: `Without arguments, lists interrupted sessions. With a session ID (or a
unique prefix), records the session in history with the score it had when it
was interrupted, or drops it with --discard.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cps, err := app.Sessions.Interrupted(ctx)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprint(out, formatter.FormatInterrupted(cps, app.now()))
				return nil
			}

			cp, err := resolveCheckpoint(cps, args[0])
			if err != nil {
				return err
			}

			if discard {
				msg := fmt.Sprintf("Discard %s %s (%s elapsed)? [y/N]: ",
					cp.Kind, cp.ReferenceID, formatter.Clock(cp.ElapsedMs))
				if !yes && !newLineReader(app.input()).confirm(out, msg, false) {
					fmt.Fprintln(out, "Kept.")
					return nil
				}
				if err := app.Sessions.DiscardInterrupted(ctx, cp.SessionID); err != nil {
					return err
				}
				fmt.Fprintf(out, "Discarded %s.\n", formatter.TruncID(cp.SessionID))
				return nil
			}

			return finalize(ctx, app, cmd, cp.SessionID)
		},
	}

	cmd.Flags().BoolVar(&discard, "discard", false, "Drop the session without recording it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func finalize(ctx context.Context, app *App, cmd *cobra.Command, sessionID string) error {
	entry, err := app.Sessions.FinalizeInterrupted(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCompletion(contract.NewHistoryView(*entry)))
	return nil
}

// resolveCheckpoint matches a full session ID or a unique prefix of one.
func resolveCheckpoint(cps []domain.Checkpoint, ref string) (domain.Checkpoint, error) {
	var matches []domain.Checkpoint
	for _, cp := range cps {
		if cp.SessionID == ref {
			return cp, nil
		}
		if strings.HasPrefix(cp.SessionID, ref) {
			matches = append(matches, cp)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Checkpoint{}, fmt.Errorf("interrupted session %q: %w", ref, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Checkpoint{}, fmt.Errorf("session prefix %q matches %d sessions", ref, len(matches))
	}
}
