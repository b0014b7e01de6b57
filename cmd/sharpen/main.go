package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/sharpen/internal/app"
	"github.com/alexanderramin/sharpen/internal/cli"
	"github.com/alexanderramin/sharpen/internal/config"
)

// shutdownBudget bounds how long closing may take to flush checkpoints.
const shutdownBudget = 5 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	// Logs go to stderr so they never interleave with command output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: env.SlogLevel()}))
	slog.SetDefault(logger)

	rt, err := app.Build(env, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownBudget)
		defer cancel()
		if err := rt.Close(ctx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	a := &cli.App{
		Sessions:      rt.Sessions,
		Progress:      rt.Progress,
		Catalog:       rt.Catalog,
		Profiles:      rt.Profiles,
		Entitled:      rt.Entitled,
		UserID:        env.UserID,
		RequiredLevel: rt.Tuning.Access.RequiredLevel,
		Serve:         rt.Serve,
	}

	// Detect an interactive terminal for the full-screen session view.
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.Execute(a, os.Args[1:])
}
