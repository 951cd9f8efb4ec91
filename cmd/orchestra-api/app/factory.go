package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/orchestra-io/orchestra/cmd/orchestra-api/app/config"
	"github.com/orchestra-io/orchestra/internal/middleware"
	"github.com/orchestra-io/orchestra/internal/routes/auth"
	"github.com/orchestra-io/orchestra/internal/routes/system"
	"github.com/orchestra-io/orchestra/internal/routes/workshops"
)

type RouteFactory func(deps *RouteOptions)

type RouteOptions struct {
	Config      *config.APIConfig
	Group       *gin.RouterGroup
	Middlewares []gin.HandlerFunc
}

type WorkshopsRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *workshops.Dependencies)

func WorkshopsRouteFactory(register WorkshopsRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Group, deps.Middlewares, &workshops.Dependencies{
			Lifecycle:        deps.Config.Lifecycle,
			DefaultNamespace: deps.Config.Namespace,
		})
	}
}

type AuthRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *auth.Dependencies)

func AuthRouteFactory(register AuthRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Group, deps.Middlewares, &auth.Dependencies{
			AuthConfig: deps.Config.AuthConfig,
			OAuth:      deps.Config.OAuth,
		})
	}
}

// System routes live at the root rather than under /api/v1.
type SystemRegisterFunc func(r *gin.Engine, deps *system.Dependencies)

func SystemRouteFactory(register SystemRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Config.GinEngine, &system.Dependencies{
			Store:        deps.Config.Lifecycle,
			ReadyTimeout: deps.Config.ReadyTimeout,
			Namespace:    deps.Config.Namespace,
		})
	}
}

type MiddlewareOptions struct {
	Config *config.APIConfig
}

type MiddlewareRegisterFunc func(deps middleware.Dependencies) gin.HandlerFunc

type MiddlewareFactory func(deps *MiddlewareOptions) gin.HandlerFunc

func CommonMiddlewareFactory(register MiddlewareRegisterFunc) MiddlewareFactory {
	return func(deps *MiddlewareOptions) gin.HandlerFunc {
		return register(middleware.Dependencies{
			Config: deps.Config.AuthConfig,
		})
	}
}

func RequestIDMiddlewareFactory(*MiddlewareOptions) gin.HandlerFunc {
	return middleware.RequestID()
}

func MetricsMiddlewareFactory(*MiddlewareOptions) gin.HandlerFunc {
	return middleware.Metrics()
}

func CORSMiddlewareFactory(deps *MiddlewareOptions) gin.HandlerFunc {
	config, ok := middleware.CORSConfig(deps.Config.CORSOrigins)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return cors.New(config)
}
