// Package app wires configuration, storage and the REST server into the
// rockrating service and manages its lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/rockmech/rockrating/internal/controllers/restserver"
	"github.com/rockmech/rockrating/internal/database"
	"github.com/rockmech/rockrating/internal/geodata"
	"github.com/rockmech/rockrating/internal/log"
	"github.com/rockmech/rockrating/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.Provider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.Provider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	// Connect the optional results database
	var db *database.Client
	if cfg.Database.Enabled {
		db = database.NewClient(cfg.Database.ConnectionString, a.logger)
		if err := db.Connect(); err != nil {
			return err
		}
		defer db.Close()
	}

	ctrl, err := restserver.NewController(ctx, &wg, cfg, db, a.logger)
	if err != nil {
		return fmt.Errorf("error creating REST server: %w", err)
	}

	// Load the bundled default dataset, if one is configured
	if cfg.Analysis.DefaultDataset != "" {
		ds, err := loadDataset(cfg.Analysis.DefaultDataset)
		if err != nil {
			return fmt.Errorf("error loading default dataset: %w", err)
		}
		ctrl.RegisterDataset(restserver.DefaultDatasetID, ds)
		log.Infof("loaded default dataset from %s: %d stations, %d records",
			cfg.Analysis.DefaultDataset, len(ds.Stations()), ds.Len())
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- ctrl.StartServer()
	}()

	log.Info("application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal, server failure or context cancellation
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

func loadDataset(path string) (*geodata.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return geodata.ReadCSV(f)
}
