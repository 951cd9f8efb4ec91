package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"k8s.io/klog/v2"

	"github.com/orchestra-io/orchestra/cmd/orchestra-api/app/config"
	"github.com/orchestra-io/orchestra/internal/cron"
)

// App represents the main API application
type App struct {
	config *config.APIConfig
}

// NewApp creates a new API application instance
func NewApp(c *config.APIConfig) *App {
	return &App{
		config: c,
	}
}

// Run starts the sweeper and the API server and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	klog.Infof("Starting Orchestra API Application")

	if a.config.SweeperConfig.Disabled {
		klog.Warningf("Expiry sweeper is disabled, expired workshops will not be removed")
	} else {
		if err := cron.StartCrons(ctx, a.config.Sweeper, a.config.SweeperConfig.Interval); err != nil {
			return fmt.Errorf("failed to start expiry sweeper: %w", err)
		}

		klog.Infof("Expiry sweeper running every %s", a.config.SweeperConfig.Interval)
	}

	serverAddr := fmt.Sprintf("%s:%d", a.config.ServerConfig.Host, a.config.ServerConfig.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: a.config.GinEngine,
	}

	errCh := make(chan error, 1)

	go func() {
		klog.Infof("Starting API server on %s", serverAddr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.ServerConfig.ShutdownTimeout)
	defer cancel()

	klog.Infof("Shutting down API server")

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}

	return nil
}
