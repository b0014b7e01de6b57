package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sharpen/internal/catalog"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/repository"
	"github.com/alexanderramin/sharpen/internal/service"
)

// App holds references to the services used by CLI commands.
type App struct {
	Sessions service.SessionManager
	Progress service.ProgressService
	Catalog  catalog.Catalog
	Profiles repository.UserProfileRepo
	Entitled service.EntitlementFunc
	UserID   string

	// RequiredLevel is the readiness threshold drawn on level bars.
	RequiredLevel int

	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error

	// In feeds line-mode sessions and confirmations. Defaults to os.Stdin.
	In io.Reader

	// IsInteractive reports whether stdin is a terminal. When nil or false,
	// "run" falls back to line mode.
	IsInteractive func() bool

	// Now overrides the wall clock for relative timestamps.
	Now func() time.Time
}

// NewRootCmd creates the top-level "sharpen" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sharpen",
		Short:         "Timed brain workouts, clarity resets and prompt drills",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCatalogCmd(app),
		newRunCmd(app),
		newHistoryCmd(app),
		newProgressCmd(app),
		newAccessCmd(app),
		newRecommendCmd(app),
		newRecoverCmd(app),
		newProfileCmd(app),
		newServeCmd(app),
	)

	return root
}

// Execute runs the root command and prints errors with a hint for the
// error kinds a user can act on.
func Execute(app *App, args []string) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(root.ErrOrStderr(), hint)
		}
	}
	return err
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		return "This activity needs premium. Run `sharpen profile premium on` to unlock it."
	case errors.Is(err, domain.ErrConflict):
		return "Finish the running session first, or run `sharpen recover` to resolve an interrupted one."
	default:
		return ""
	}
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) input() io.Reader {
	if a.In != nil {
		return a.In
	}
	return os.Stdin
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) premium(ctx context.Context) bool {
	return a.Entitled != nil && a.Entitled(ctx, a.UserID)
}
