package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ServerOptions holds server configuration options
type ServerOptions struct {
	Port            int
	Host            string
	ShutdownTimeout time.Duration
}

// NewServerOptions creates new server options with default values
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Port:            8000,
		Host:            "0.0.0.0",
		ShutdownTimeout: 30 * time.Second,
	}
}

// AddFlags adds flags for this options struct to the given FlagSet
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Port, "port", o.Port, "API server port")
	fs.StringVar(&o.Host, "host", o.Host, "API server host")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "time allowed for in-flight requests on shutdown")
}

// Validate validates server options
func (o *ServerOptions) Validate() error {
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("--port must be between 0 and 65535, got %d", o.Port)
	}

	return nil
}
