package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/repository"
)

// runOutcome is how a foreground session ended from the user's side.
type runOutcome int

const (
	outcomeRunning runOutcome = iota
	outcomeComplete
	outcomeTimedOut
	outcomeAbandoned
	outcomeDetached
)

func newRunCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "run <kind> <activity>",
		Aliases: []string{"start"},
		Short:   "Start a timed session in the foreground",
		Long: `Starts a session and keeps it in the foreground until it is completed,
abandoned or the timer runs out. On a terminal this opens a full-screen
view; otherwise commands are read line by line from stdin:

  <text or points>  submit (prompt drills and workouts)
  :pause / :resume  stop or restart the timer
  :status           show the remaining time
  :done             complete the session
  :quit             abandon the session`,
		Example: "  sharpen run prompt role-and-context\n  sharpen run workout memory-match --plain",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := domain.ParseSessionKind(strings.ToLower(args[0]))
			if err != nil {
				return err
			}
			activity, err := app.Catalog.Lookup(ctx, kind, args[1])
			if err != nil {
				return err
			}
			s, err := app.Sessions.Start(ctx, kind, activity.ReferenceID)
			if err != nil {
				return err
			}
			if app.interactive() && !plain {
				return runInteractive(ctx, app, cmd.OutOrStdout(), activity, s)
			}
			return runLines(ctx, app, cmd.OutOrStdout(), activity, s)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Read commands line by line even on a terminal")

	return cmd
}

func runLines(ctx context.Context, app *App, out io.Writer, activity domain.Activity, s domain.Session) error {
	r := newLineReader(app.input())
	fmt.Fprint(out, formatIntro(activity))
	fmt.Fprintln(out, formatter.Dim(lineHelp(s.Kind)))

	outcome := outcomeRunning
	for outcome == outcomeRunning {
		line, err := r.prompt(out, linePrompt(s.Kind))
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) {
				return err
			}
			line = ":done"
		}
		if timedOut(ctx, app, s.ID) {
			outcome = outcomeTimedOut
			break
		}

		switch line {
		case "":
			if s.Kind == domain.KindClarityReset {
				outcome = outcomeComplete
			}
		case ":done":
			outcome = outcomeComplete
		case ":quit":
			if err := app.Sessions.Abandon(ctx, s.ID); err != nil {
				return err
			}
			outcome = outcomeAbandoned
		case ":pause":
			cur, err := app.Sessions.Pause(ctx, s.ID)
			if err != nil {
				fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
				continue
			}
			fmt.Fprintf(out, "Paused with %s left. Type :resume to continue.\n", formatter.Clock(cur.RemainingMs()))
		case ":resume":
			cur, err := app.Sessions.Resume(ctx, s.ID)
			if err != nil {
				fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
				continue
			}
			fmt.Fprintf(out, "Resumed. %s left.\n", formatter.Clock(cur.RemainingMs()))
		case ":status":
			cur, err := app.Sessions.Get(ctx, s.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s %s left, %s\n", formatter.StateBadge(cur.State),
				formatter.RenderCountdown(cur.RemainingMs(), cur.TotalDurationMs, 20),
				formatter.Clock(cur.RemainingMs()), formatter.Plural(len(cur.Submissions), "submission", "submissions"))
		default:
			if s.Kind == domain.KindClarityReset {
				fmt.Fprintln(out, formatter.Dim("Press Enter when you are done."))
				continue
			}
			artifact, err := artifactFor(s.Kind, line)
			if err != nil {
				fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
				continue
			}
			res, err := app.Sessions.Submit(ctx, s.ID, artifact)
			switch {
			case errors.Is(err, domain.ErrInvalidState) && timedOut(ctx, app, s.ID):
				outcome = outcomeTimedOut
			case errors.Is(err, domain.ErrInvalidState):
				fmt.Fprintln(out, formatter.StyleYellow.Render("Session is paused. Type :resume to continue."))
			case err != nil:
				fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
			default:
				fmt.Fprint(out, formatter.FormatScore(res))
			}
		}
	}

	return finishRun(ctx, app, out, s, outcome, func() (domain.CompletionData, error) {
		return promptClarityLines(r, out)
	})
}

// finishRun records the end of a foreground session and prints the result.
// collect gathers the clarity reset check-in before completion.
func finishRun(ctx context.Context, app *App, out io.Writer, s domain.Session, outcome runOutcome, collect func() (domain.CompletionData, error)) error {
	switch outcome {
	case outcomeAbandoned:
		fmt.Fprintln(out, formatter.Dim("Session abandoned. Nothing was recorded."))
		return nil
	case outcomeDetached:
		fmt.Fprintf(out, "Left session %s open. Run `sharpen recover %s` later to record it.\n",
			formatter.TruncID(s.ID), formatter.TruncID(s.ID))
		return nil
	case outcomeTimedOut:
		entry, err := historyEntryFor(ctx, app, s)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatter.StyleYellow.Render("Time's up."))
		fmt.Fprintln(out, formatter.FormatCompletion(contract.NewHistoryView(*entry)))
		return nil
	}

	var data domain.CompletionData
	if s.Kind == domain.KindClarityReset && collect != nil {
		// The timer keeps running while the check-in is answered.
		var err error
		if data, err = collect(); err != nil {
			return err
		}
	}
	entry, err := app.Sessions.Complete(ctx, s.ID, data)
	if errors.Is(err, domain.ErrInvalidState) && timedOut(ctx, app, s.ID) {
		entry, err = historyEntryFor(ctx, app, s)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatter.FormatCompletion(contract.NewHistoryView(*entry)))
	return nil
}

func promptClarityLines(r *lineReader, out io.Writer) (domain.CompletionData, error) {
	var data domain.CompletionData
	intent, err := r.prompt(out, "What will you focus on next? ")
	if err != nil && !errors.Is(err, io.EOF) {
		return data, err
	}
	data.Intent = intent
	fog, ok, err := r.promptInt(out, "How foggy do you feel, 1 (clear) to 5 (very foggy)? ", 1, 5)
	if err != nil && !errors.Is(err, io.EOF) {
		return data, err
	}
	if ok {
		data.FogLevel = &fog
	}
	return data, nil
}

// artifactFor turns one line of input into a submission.
func artifactFor(kind domain.SessionKind, text string) (domain.Artifact, error) {
	switch kind {
	case domain.KindWorkout:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n < 0 {
			return domain.Artifact{}, fmt.Errorf("points must be a whole number, got %q", text)
		}
		return domain.Artifact{Points: n}, nil
	case domain.KindPromptDrill:
		return domain.Artifact{Text: text}, nil
	default:
		return domain.Artifact{}, fmt.Errorf("%s sessions take no submissions", kind)
	}
}

func timedOut(ctx context.Context, app *App, sessionID string) bool {
	cur, err := app.Sessions.Get(ctx, sessionID)
	return err == nil && cur.State == domain.StateCompleted
}

// historyEntryFor finds the entry written when a session completed on its
// own, typically because its timer expired.
func historyEntryFor(ctx context.Context, app *App, s domain.Session) (*domain.HistoryEntry, error) {
	kind := s.Kind
	entries, err := app.Progress.History(ctx, repository.HistoryFilter{Kind: &kind, Limit: 20})
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].SessionID == s.ID {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("history entry for session %s: %w", s.ID, domain.ErrNotFound)
}

func formatIntro(a domain.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", formatter.KindLabel(a.Kind), formatter.Bold(a.Name),
		formatter.Dim(formatter.FormatDuration(a.TotalDuration.Milliseconds())))
	if a.Description != "" {
		fmt.Fprintln(&b, formatter.Dim(a.Description))
	}
	for _, step := range a.Instructions {
		fmt.Fprintf(&b, "  • %s\n", step)
	}
	if a.SuggestedPrompt != "" {
		fmt.Fprintf(&b, "%s %s\n", formatter.StyleBlue.Render("Task:"), a.SuggestedPrompt)
	}
	return b.String()
}

func linePrompt(kind domain.SessionKind) string {
	switch kind {
	case domain.KindWorkout:
		return "points> "
	case domain.KindPromptDrill:
		return "prompt> "
	default:
		return "> "
	}
}

func lineHelp(kind domain.SessionKind) string {
	switch kind {
	case domain.KindClarityReset:
		return "Press Enter when done · :pause · :resume · :status · :quit"
	default:
		return ":done to finish · :pause · :resume · :status · :quit"
	}
}
