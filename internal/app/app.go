// Package app initializes and orchestrates the main components of the
// Brigantine service: configuration, the pipeline runner, the dispatcher,
// and the HTTP server.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/db"
	"github.com/brigantine-ci/brigantine/internal/executor"
	"github.com/brigantine-ci/brigantine/internal/github"
	"github.com/brigantine-ci/brigantine/internal/jobs"
	"github.com/brigantine-ci/brigantine/internal/pipeline"
	"github.com/brigantine-ci/brigantine/internal/server"
	"github.com/brigantine-ci/brigantine/internal/storage"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	server     *server.Server
	dispatcher *jobs.Dispatcher
	closeDB    func()
	logger     *slog.Logger
}

// NewApp sets up the application with all its dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing Brigantine",
		"runner_url", cfg.Runner.URL,
		"max_workers", cfg.Pipeline.MaxWorkers,
		"history_enabled", cfg.Database.Enabled(),
	)

	overrides, err := config.LoadPipelineOverrides(cfg.Pipeline.OverridesPath)
	if err != nil {
		if !errors.Is(err, config.ErrOverridesNotFound) {
			return nil, fmt.Errorf("failed to load pipeline overrides: %w", err)
		}
		logger.Info("no pipeline overrides file, using built-in defaults", "path", cfg.Pipeline.OverridesPath)
	}

	var store storage.Store
	closeDB := func() {}
	if cfg.Database.Enabled() {
		dbConn, cleanup, err := db.NewDatabase(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = storage.NewStore(dbConn.DB)
		closeDB = cleanup
	} else {
		logger.Info("build history is disabled; no database host configured")
	}

	runnerClient := executor.NewHTTPExecutor(&cfg.Runner, logger)
	reporter := github.NewChecksReporter(&cfg.GitHub, logger)
	resolver := github.NewHeadResolver(&cfg.GitHub, logger)
	runner := pipeline.NewRunner(cfg, runnerClient, reporter, resolver, store, overrides, logger)
	dispatcher := jobs.NewDispatcher(runner, cfg.Pipeline.MaxWorkers, logger)
	httpServer := server.NewServer(cfg, dispatcher, store, logger)

	logger.Info("Brigantine initialized successfully")
	return &App{
		cfg:        cfg,
		server:     httpServer,
		dispatcher: dispatcher,
		closeDB:    closeDB,
		logger:     logger,
	}, nil
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting Brigantine",
		"server_port", a.cfg.Server.Port,
		"max_workers", a.cfg.Pipeline.MaxWorkers,
	)
	return a.server.Start()
}

// Stop shuts down the application cleanly: the server first so no new
// events arrive, then the dispatcher so in-flight pipelines finish, then
// the database.
func (a *App) Stop() error {
	a.logger.Info("shutting down Brigantine services")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()
	a.closeDB()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("Brigantine stopped successfully")
	return nil
}
