package app

import (
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/orchestra-io/orchestra/cmd/orchestra-api/app/config"
	"github.com/orchestra-io/orchestra/internal/middleware"
	"github.com/orchestra-io/orchestra/internal/routes/auth"
	"github.com/orchestra-io/orchestra/internal/routes/system"
	"github.com/orchestra-io/orchestra/internal/routes/workshops"
)

// Builder is the API application builder
type Builder struct {
	routeInits             map[string]RouteFactory
	middlewareInits        map[string]MiddlewareFactory
	routesToMiddlewares    map[string][]string
	config                 *config.APIConfig
	globalMiddlewaresInits []MiddlewareFactory
}

// NewBuilder creates a new API builder
func NewBuilder() *Builder {
	b := &Builder{
		middlewareInits:     make(map[string]MiddlewareFactory),
		routeInits:          make(map[string]RouteFactory),
		routesToMiddlewares: make(map[string][]string),
		// order matters: the request id is needed by the metrics log line
		globalMiddlewaresInits: []MiddlewareFactory{
			RequestIDMiddlewareFactory,
			CORSMiddlewareFactory,
			MetricsMiddlewareFactory,
		},
	}

	defaultRouteInits := map[string]RouteFactory{
		"workshops": WorkshopsRouteFactory(workshops.RegisterRoutes),
		"auth":      AuthRouteFactory(auth.RegisterAuthRoutes),
		"system":    SystemRouteFactory(system.RegisterRoutes),
	}

	for name, routeInit := range defaultRouteInits {
		b.routeInits[name] = routeInit
	}

	defaultMiddlewareInits := map[string]MiddlewareFactory{
		"auth": CommonMiddlewareFactory(middleware.Auth),
	}

	for name, middlewareInit := range defaultMiddlewareInits {
		b.middlewareInits[name] = middlewareInit
	}

	defaultRoutesToMiddlewares := map[string][]string{
		"workshops": {"auth"},
	}

	for route, middlewares := range defaultRoutesToMiddlewares {
		b.routesToMiddlewares[route] = middlewares
	}

	return b
}

// WithConfig sets the configuration for the builder
func (b *Builder) WithConfig(c *config.APIConfig) *Builder {
	b.config = c
	return b
}

// WithRoute registers a route
func (b *Builder) WithRoute(name string, routeInit RouteFactory) *Builder {
	b.routeInits[name] = routeInit
	return b
}

// WithMiddleware registers a middleware to routes
func (b *Builder) WithMiddleware(name string, middlewareInit MiddlewareFactory, routes []string) *Builder {
	if _, exists := b.middlewareInits[name]; !exists {
		b.middlewareInits[name] = middlewareInit
	}

	for _, route := range routes {
		exists := false

		for _, mwName := range b.routesToMiddlewares[route] {
			if mwName == name {
				exists = true
				break
			}
		}

		if !exists {
			b.routesToMiddlewares[route] = append(b.routesToMiddlewares[route], name)
		}
	}

	return b
}

// WithGlobalMiddleware adds a global middleware that applies to all routes
func (b *Builder) WithGlobalMiddleware(middlewareInit MiddlewareFactory) *Builder {
	b.globalMiddlewaresInits = append(b.globalMiddlewaresInits, middlewareInit)
	return b
}

// Build creates and initializes all components
func (b *Builder) Build() (*App, error) {
	if b.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if b.config.GinEngine == nil {
		return nil, fmt.Errorf("gin engine is required")
	}

	middlewareOptions := &MiddlewareOptions{
		Config: b.config,
	}

	for _, mw := range b.globalMiddlewaresInits {
		b.config.GinEngine.Use(mw(middlewareOptions))
	}

	middlewareHandleMap := make(map[string]gin.HandlerFunc)
	for name, factory := range b.middlewareInits {
		middlewareHandleMap[name] = factory(middlewareOptions)
	}

	apiV1 := b.config.GinEngine.RouterGroup.Group("/api/v1")

	// register in a stable order so route conflicts surface deterministically
	names := make([]string, 0, len(b.routeInits))
	for name := range b.routeInits {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		middlewares := []gin.HandlerFunc{}

		for _, mwName := range b.routesToMiddlewares[name] {
			mw, exists := middlewareHandleMap[mwName]
			if !exists {
				return nil, fmt.Errorf("middleware %s not found for route %s", mwName, name)
			}

			middlewares = append(middlewares, mw)
		}

		b.routeInits[name](&RouteOptions{
			Config:      b.config,
			Group:       apiV1,
			Middlewares: middlewares,
		})
	}

	return NewApp(b.config), nil
}
