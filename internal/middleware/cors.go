package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
)

// CORSConfig allows browser clients served from origins. A "*" entry allows
// any origin; credentials are then not advertised. The second result is false
// when origins is empty and no CORS handling is wanted.
func CORSConfig(origins []string) (cors.Config, bool) {
	config := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        10 * time.Minute,
	}

	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")

		switch o {
		case "":
		case "*":
			config.AllowAllOrigins = true
		default:
			config.AllowOrigins = append(config.AllowOrigins, o)
		}
	}

	if config.AllowAllOrigins {
		config.AllowOrigins = nil
	} else {
		config.AllowCredentials = true
	}

	return config, config.AllowAllOrigins || len(config.AllowOrigins) > 0
}

// ValidateCORSOrigins reports origins that cors.New would reject.
func ValidateCORSOrigins(origins []string) error {
	config, ok := CORSConfig(origins)
	if !ok {
		return nil
	}

	return config.Validate()
}
