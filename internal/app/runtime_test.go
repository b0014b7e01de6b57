package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sharpen/internal/config"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/repository"
)

func testEnv(t *testing.T, store string) config.Env {
	t.Helper()
	dir := t.TempDir()
	return config.Env{
		DBPath:      filepath.Join(dir, "sharpen.db"),
		Store:       store,
		BadgerDir:   filepath.Join(dir, "badger"),
		ConfigPath:  filepath.Join(dir, "config.toml"),
		CatalogPath: filepath.Join(dir, "catalog.yaml"),
		UserID:      "default",
		Timezone:    "UTC",
		HTTPAddr:    "127.0.0.1:0",
	}
}

func TestBuild_SessionsSurviveRestart(t *testing.T) {
	for _, store := range []string{config.StoreSQLite, config.StoreBadger} {
		t.Run(store, func(t *testing.T) {
			ctx := context.Background()
			env := testEnv(t, store)
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			rt, err := Build(env, logger)
			require.NoError(t, err)
			s, err := rt.Sessions.Start(ctx, domain.KindWorkout, "memory-match")
			require.NoError(t, err)
			require.NoError(t, rt.Close(ctx))

			rt, err = Build(env, logger)
			require.NoError(t, err)
			t.Cleanup(func() { _ = rt.Close(context.Background()) })

			interrupted, err := rt.Sessions.Interrupted(ctx)
			require.NoError(t, err)
			require.Len(t, interrupted, 1)
			assert.Equal(t, s.ID, interrupted[0].SessionID)

			_, err = rt.Sessions.FinalizeInterrupted(ctx, s.ID)
			require.NoError(t, err)
			history, err := rt.Progress.History(ctx, repository.HistoryFilter{})
			require.NoError(t, err)
			assert.Len(t, history, 1)
		})
	}
}

func TestBuild_PremiumOverride(t *testing.T) {
	ctx := context.Background()
	env := testEnv(t, config.StoreSQLite)
	on := true
	env.Premium = &on

	rt, err := Build(env, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })

	_, err = rt.Sessions.Start(ctx, domain.KindWorkout, "focus-grid")
	assert.NoError(t, err)
}

func TestBuild_RejectsBadTimezone(t *testing.T) {
	env := testEnv(t, config.StoreSQLite)
	env.Timezone = "Mars/Olympus"

	_, err := Build(env, nil)
	assert.Error(t, err)
}
