package system

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/orchestra-io/orchestra/internal/version"
)

const serviceName = "orchestra-api"

// Pinger reports whether the cluster store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies defines the dependencies for system handlers
type Dependencies struct {
	// Store is pinged by the readiness check
	Store Pinger
	// ReadyTimeout bounds the readiness check
	ReadyTimeout time.Duration
	// Namespace is the default workshop namespace
	Namespace string
}

// ServiceInfo is the response of the root endpoint
type ServiceInfo struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Namespace   string    `json:"namespace,omitempty"`
	HealthURL   string    `json:"health_url"`
	Timestamp   time.Time `json:"timestamp"`
}

// HealthStatus is returned by the health endpoints
type HealthStatus struct {
	Status    string    `json:"status"`
	Service   string    `json:"service,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RegisterRoutes registers service info, health and metrics routes. None of
// them require authentication.
func RegisterRoutes(r *gin.Engine, deps *Dependencies) {
	r.GET("/", handleServiceInfo(deps))

	health := r.Group("/health")
	health.GET("", handleHealth)
	health.GET("/ready", handleReady(deps))
	health.GET("/live", handleLive)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api/v1/system/info", handleServiceInfo(deps))
}

func handleServiceInfo(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &ServiceInfo{
			Name:        "Orchestra API",
			Version:     version.Get().Version,
			Description: "REST API for managing RStudio workshops",
			Namespace:   deps.Namespace,
			HealthURL:   "/health",
			Timestamp:   time.Now().UTC(),
		})
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, &HealthStatus{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC(),
	})
}

func handleLive(c *gin.Context) {
	c.JSON(http.StatusOK, &HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC(),
	})
}

func handleReady(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if deps.ReadyTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.ReadyTimeout)

			defer cancel()
		}

		if err := deps.Store.Ping(ctx); err != nil {
			klog.Warningf("Readiness check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, &HealthStatus{
				Status:    "not ready",
				Message:   err.Error(),
				Timestamp: time.Now().UTC(),
			})

			return
		}

		c.JSON(http.StatusOK, &HealthStatus{
			Status:    "ready",
			Timestamp: time.Now().UTC(),
		})
	}
}
