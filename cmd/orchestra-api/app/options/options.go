package options

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/orchestra-io/orchestra/cmd/orchestra-api/app/config"
	"github.com/orchestra-io/orchestra/internal/cron"
	"github.com/orchestra-io/orchestra/internal/util"
	"github.com/orchestra-io/orchestra/internal/workshop/lifecycle"
	"github.com/orchestra-io/orchestra/internal/workshop/projector"
	"github.com/orchestra-io/orchestra/internal/workshop/resource"
	"github.com/orchestra-io/orchestra/internal/workshop/translator"
)

// Options holds all configuration options for the API server
type Options struct {
	Server     *ServerOptions
	API        *APIOptions
	Kubernetes *KubernetesOptions
	Workshop   *WorkshopOptions
	Sweeper    *SweeperOptions
	Auth       *AuthOptions
}

// NewOptions creates new options with default values
func NewOptions() *Options {
	return &Options{
		Server:     NewServerOptions(),
		API:        NewAPIOptions(),
		Kubernetes: NewKubernetesOptions(),
		Workshop:   NewWorkshopOptions(),
		Sweeper:    NewSweeperOptions(),
		Auth:       NewAuthOptions(),
	}
}

// AddFlags adds flags for all options structs to the given FlagSet
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Server.AddFlags(fs)
	o.API.AddFlags(fs)
	o.Kubernetes.AddFlags(fs)
	o.Workshop.AddFlags(fs)
	o.Sweeper.AddFlags(fs)
	o.Auth.AddFlags(fs)
}

// Validate validates all options
func (o *Options) Validate() error {
	if err := o.Server.Validate(); err != nil {
		return fmt.Errorf("server options validation failed: %w", err)
	}

	if err := o.API.Validate(); err != nil {
		return fmt.Errorf("api options validation failed: %w", err)
	}

	if err := o.Kubernetes.Validate(); err != nil {
		return fmt.Errorf("kubernetes options validation failed: %w", err)
	}

	if err := o.Workshop.Validate(); err != nil {
		return fmt.Errorf("workshop options validation failed: %w", err)
	}

	if err := o.Sweeper.Validate(); err != nil {
		return fmt.Errorf("sweeper options validation failed: %w", err)
	}

	if err := o.Auth.Validate(); err != nil {
		return fmt.Errorf("auth options validation failed: %w", err)
	}

	return nil
}

// Config converts options to API configuration
func (o *Options) Config() (*config.APIConfig, error) {
	kubeClient, err := util.GetClient(o.Kubernetes.KubeConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to init kubernetes client: %w", err)
	}

	policy, err := o.Workshop.Policy()
	if err != nil {
		return nil, fmt.Errorf("failed to build workshop policy: %w", err)
	}

	manager := lifecycle.NewManager(
		resource.New(kubeClient),
		translator.New(policy),
		projector.New(o.Workshop.ExpiringGrace),
	)

	gin.SetMode(o.API.GinMode)

	engine := gin.Default()

	return &config.APIConfig{
		Lifecycle:  manager,
		Sweeper:    cron.NewSweeper(manager, nil),
		GinEngine:  engine,
		AuthConfig: o.Auth.AuthConfig(),
		OAuth:      o.Auth.OAuthConfig(),

		ServerConfig: &config.ServerConfig{
			Port:            o.Server.Port,
			Host:            o.Server.Host,
			ShutdownTimeout: o.Server.ShutdownTimeout,
		},

		SweeperConfig: &config.SweeperConfig{
			Disabled: o.Sweeper.Disabled,
			Interval: o.Sweeper.Interval,
		},

		Namespace:    o.Kubernetes.Namespace,
		CORSOrigins:  o.API.CORSOrigins,
		ReadyTimeout: o.API.ReadyTimeout,
	}, nil
}
