package options

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/orchestra-io/orchestra/internal/middleware"
)

// APIOptions holds API application configuration options
type APIOptions struct {
	GinMode      string
	CORSOrigins  []string
	ReadyTimeout time.Duration
}

// NewAPIOptions creates new API options with default values
func NewAPIOptions() *APIOptions {
	return &APIOptions{
		GinMode:      gin.ReleaseMode,
		ReadyTimeout: 5 * time.Second,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
	}
}

// AddFlags adds flags for this options struct to the given FlagSet
func (o *APIOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.GinMode, "gin-mode", o.GinMode, "gin mode: debug, release, test")
	fs.StringSliceVar(&o.CORSOrigins, "cors-origins", o.CORSOrigins, "origins allowed to call the API from a browser, * for any")
	fs.DurationVar(&o.ReadyTimeout, "ready-timeout", o.ReadyTimeout, "how long the readiness check waits for the cluster API")
}

// Validate validates API options
func (o *APIOptions) Validate() error {
	if o.ReadyTimeout <= 0 {
		return fmt.Errorf("--ready-timeout must be positive")
	}

	if err := middleware.ValidateCORSOrigins(o.CORSOrigins); err != nil {
		return fmt.Errorf("--cors-origins: %w", err)
	}

	switch o.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("--gin-mode must be one of debug, release, test, got %q", o.GinMode)
	}
}
