// Package restserver serves on-demand flight-window planning over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/config"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller represents the REST planning server controller
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	cfg      *config.Config
	Server   http.Server
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg.Server.ListenAddr == "" {
		return nil, fmt.Errorf("no listen_addr configured for the REST server")
	}

	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		cfg:    cfg,
		logger: logger,
	}
	ctrl.handlers = NewHandlers(cfg, logger)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/windows", ctrl.handlers.GetWindows).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/health", ctrl.handlers.GetHealth).Methods(http.MethodGet)
	router.Use(ctrl.requestLogger)

	ctrl.Server = http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return ctrl, nil
}

// StartController starts the HTTP listener and shuts it down when the
// controller context is cancelled.
func (c *Controller) StartController() error {
	c.logger.Infof("starting REST planning server on %s", c.Server.Addr)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown: %v", err)
		}
	}()

	return nil
}

func (c *Controller) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		c.logger.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}
