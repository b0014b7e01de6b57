// Package app wires configuration, storage and services into a runnable
// process shared by the CLI and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/sharpen/internal/catalog"
	"github.com/alexanderramin/sharpen/internal/config"
	"github.com/alexanderramin/sharpen/internal/db"
	"github.com/alexanderramin/sharpen/internal/httpapi"
	"github.com/alexanderramin/sharpen/internal/progress"
	"github.com/alexanderramin/sharpen/internal/repository"
	"github.com/alexanderramin/sharpen/internal/scoring"
	"github.com/alexanderramin/sharpen/internal/service"
)

// Runtime owns every long-lived resource of the process.
type Runtime struct {
	Env         config.Env
	Tuning      config.Tuning
	Logger      *slog.Logger
	Catalog     *catalog.Static
	CatalogPath string
	Sessions    service.SessionManager
	Progress    service.ProgressService
	Profiles    repository.UserProfileRepo
	Entitled    service.EntitlementFunc
	Registry    *prometheus.Registry

	database *sql.DB
	closers  []func() error
}

// Build opens storage and constructs the services described by env.
// The user profile always lives in SQLite; SHARPEN_STORE selects the
// session log backend.
func Build(env config.Env, logger *slog.Logger) (_ *Runtime, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	tuning, err := config.LoadTuning(env.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}
	rt := &Runtime{Env: env, Tuning: tuning, Logger: logger}
	defer func() {
		if err != nil {
			_ = rt.Close(context.Background())
		}
	}()

	rt.database, err = db.OpenDB(env.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	rt.Profiles = repository.NewSQLiteUserProfileRepo(rt.database)
	loc, err := rt.location(env)
	if err != nil {
		return nil, err
	}

	var log repository.SessionLog
	switch env.Store {
	case config.StoreBadger:
		cfg := repository.DefaultBadgerConfig(env.BadgerDir)
		cfg.Logger = logger.With("component", "badger")
		bdb, err := repository.OpenBadger(cfg)
		if err != nil {
			return nil, fmt.Errorf("opening badger store: %w", err)
		}
		blog, err := repository.NewBadgerSessionLog(bdb)
		if err != nil {
			_ = bdb.Close()
			return nil, fmt.Errorf("opening badger session log: %w", err)
		}
		rt.closers = append(rt.closers, blog.Close, bdb.Close)
		log = blog
	default:
		log = repository.NewSQLiteSessionLog(rt.database, db.NewSQLiteUnitOfWork(rt.database))
	}

	rt.CatalogPath = env.CatalogPath
	if rt.CatalogPath == "" {
		rt.CatalogPath = config.DefaultCatalogPath()
	}
	rt.Catalog, err = catalog.Load(rt.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	rt.Registry = prometheus.NewRegistry()
	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observers := []service.UseCaseObserver{
		service.NewSlogUseCaseObserver(logger),
		service.NewMetricsObserver(rt.Registry),
	}

	rt.Entitled = service.ProfileEntitlement(rt.Profiles, env.Premium, logger)
	rt.Sessions = service.NewSessionManager(
		rt.Catalog,
		log,
		scoring.NewEngine(tuning.Scoring),
		rt.Entitled,
		service.WithUserID(env.UserID),
		service.WithCheckpointConfig(tuning.Checkpoint),
		service.WithLogger(logger),
		service.WithObservers(observers...),
	)
	rt.Progress = service.NewProgressService(
		log,
		progress.NewCalculator(tuning.Readiness),
		progress.NewGate(tuning.Access),
		rt.Entitled,
		service.ProgressConfig{UserID: env.UserID, Location: loc, Recommend: tuning.Recommend},
		observers...,
	)
	return rt, nil
}

// Serve runs the HTTP API and, when the catalog directory exists, the
// catalog hot-reload watcher until ctx is cancelled.
func (rt *Runtime) Serve(ctx context.Context) error {
	router, err := httpapi.NewRouter(httpapi.Deps{
		Sessions: rt.Sessions,
		Progress: rt.Progress,
		Catalog:  rt.Catalog,
		Entitled: rt.Entitled,
		UserID:   rt.Env.UserID,
		Gatherer: rt.Registry,
		Logger:   rt.Logger,
	})
	if err != nil {
		return err
	}
	srv := httpapi.NewServer(rt.Env.HTTPAddr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.Logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.WithoutCancel(ctx))
	})
	if dir := filepath.Dir(rt.CatalogPath); dirExists(dir) {
		w := catalog.NewWatcher(rt.CatalogPath, rt.Catalog, rt.Logger)
		g.Go(func() error { return w.Run(ctx) })
	} else {
		rt.Logger.Debug("catalog watcher disabled", "dir", dir)
	}
	return g.Wait()
}

// Close flushes live sessions and releases storage. It is safe to call on a
// partially built runtime.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.Sessions != nil {
		errs = append(errs, rt.Sessions.Close(ctx))
	}
	for _, c := range rt.closers {
		errs = append(errs, c())
	}
	if rt.database != nil {
		errs = append(errs, rt.database.Close())
	}
	return errors.Join(errs...)
}

// location prefers SHARPEN_TIMEZONE over the timezone stored in the profile.
func (rt *Runtime) location(env config.Env) (*time.Location, error) {
	if env.Timezone == "" {
		if p, err := rt.Profiles.Get(context.Background()); err == nil {
			env.Timezone = p.Timezone
		}
	}
	return env.Location()
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
