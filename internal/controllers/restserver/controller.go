// Package restserver exposes scored survey data over HTTP: dataset upload,
// station and family scores, summaries and CSV export.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rockmech/rockrating/internal/analysis"
	"github.com/rockmech/rockrating/internal/database"
	"github.com/rockmech/rockrating/internal/families"
	"github.com/rockmech/rockrating/internal/geodata"
	"github.com/rockmech/rockrating/internal/log"
	"github.com/rockmech/rockrating/pkg/config"
)

// DefaultDatasetID is the registry key of the dataset loaded from
// configuration at startup.
const DefaultDatasetID = "default"

// Controller represents the REST server controller
type Controller struct {
	ctx           context.Context
	wg            *sync.WaitGroup
	httpConfig    config.HTTPData
	defaultParams families.Params
	Server        http.Server
	DB            *database.Client
	logger        *zap.SugaredLogger
	handlers      *Handlers

	mu        sync.RWMutex
	analyzers map[string]*analysis.Analyzer
}

// NewController creates a new REST server controller. db may be nil when
// results persistence is disabled.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.Data, db *database.Client, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg.HTTP.ListenAddr == "" {
		return nil, fmt.Errorf("REST server requires a listen address")
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		httpConfig: cfg.HTTP,
		defaultParams: families.Params{
			ToleranceDeg: cfg.Analysis.ToleranceDeg,
			MinMembers:   cfg.Analysis.MinMembers,
		},
		DB:        db,
		logger:    logger,
		analyzers: make(map[string]*analysis.Analyzer),
	}
	ctrl.handlers = NewHandlers(ctrl)

	router := mux.NewRouter()
	ctrl.setupRoutes(router)

	ctrl.Server = http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		Handler:      handlers.CombinedLoggingHandler(zap.NewStdLog(log.GetZapLogger()).Writer(), router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return ctrl, nil
}

// setupRoutes wires the HTTP endpoints
func (c *Controller) setupRoutes(router *mux.Router) {
	router.Use(c.corsMiddleware)
	router.HandleFunc("/datasets", c.handlers.UploadDataset).Methods(http.MethodPost)
	router.HandleFunc("/datasets", c.handlers.ListDatasets).Methods(http.MethodGet)
	router.HandleFunc("/datasets/{id}/summary", c.handlers.DatasetSummary).Methods(http.MethodGet)
	router.HandleFunc("/datasets/{id}/stations", c.handlers.ListStations).Methods(http.MethodGet)
	router.HandleFunc("/datasets/{id}/stations/{station}", c.handlers.StationScore).Methods(http.MethodGet)
	router.HandleFunc("/datasets/{id}/stations/{station}/families", c.handlers.StationFamilies).Methods(http.MethodGet)
	router.HandleFunc("/datasets/{id}/export", c.handlers.ExportCSV).Methods(http.MethodGet)
	router.HandleFunc("/health", c.handlers.Health).Methods(http.MethodGet)
}

// corsMiddleware adds CORS headers
func (c *Controller) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RegisterDataset places a dataset in the registry under the given ID,
// replacing any previous dataset with the same ID, and returns its analyzer.
func (c *Controller) RegisterDataset(id string, ds *geodata.Dataset) *analysis.Analyzer {
	analyzer := analysis.New(ds, c.defaultParams, c.logger)
	c.mu.Lock()
	c.analyzers[id] = analyzer
	c.mu.Unlock()
	return analyzer
}

// analyzer fetches a registered dataset's analyzer.
func (c *Controller) analyzer(id string) (*analysis.Analyzer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.analyzers[id]
	return a, ok
}

// datasetIDs lists registered dataset IDs.
func (c *Controller) datasetIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.analyzers))
	for id := range c.analyzers {
		ids = append(ids, id)
	}
	return ids
}

// StartServer runs the HTTP server until the controller context is
// cancelled, then shuts it down gracefully.
func (c *Controller) StartServer() error {
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	c.logger.Infof("REST server listening on %s", c.httpConfig.ListenAddr)
	if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("REST server failed: %w", err)
	}
	return nil
}
