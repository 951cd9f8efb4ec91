package config

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orchestra-io/orchestra/internal/cron"
	"github.com/orchestra-io/orchestra/internal/middleware"
	"github.com/orchestra-io/orchestra/internal/oauth"
	"github.com/orchestra-io/orchestra/internal/workshop/lifecycle"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ShutdownTimeout time.Duration
}

// SweeperConfig holds expiry sweeper configuration
type SweeperConfig struct {
	Disabled bool
	Interval time.Duration
}

// APIConfig holds the main API configuration
type APIConfig struct {
	// Core dependencies
	Lifecycle  lifecycle.Interface
	Sweeper    *cron.Sweeper
	GinEngine  *gin.Engine
	AuthConfig middleware.AuthConfig
	OAuth      oauth.Config

	ServerConfig  *ServerConfig
	SweeperConfig *SweeperConfig

	Namespace    string
	CORSOrigins  []string
	ReadyTimeout time.Duration
}
