package framework

import (
	"os"
	"time"
)

// Config holds the test configuration loaded from environment variables.
type Config struct {
	APIEndpoint string        // Orchestra API base URL, empty disables the suite
	Token       string        // Bearer token accepted by the API
	Namespace   string        // Workshop namespace, empty uses the server default
	Image       string        // Workshop image, empty uses the server default
	IngressHost string        // Host suffix for ingress tests, empty skips them
	Timeout     time.Duration // How long a workshop may take to become Running
}

// NewConfigFromEnv creates a new Config from environment variables.
func NewConfigFromEnv() *Config {
	return &Config{
		APIEndpoint: os.Getenv("E2E_API_ENDPOINT"),
		Token:       os.Getenv("E2E_TOKEN"),
		Namespace:   os.Getenv("E2E_NAMESPACE"),
		Image:       os.Getenv("E2E_IMAGE"),
		IngressHost: os.Getenv("E2E_INGRESS_HOST"),
		Timeout:     getDuration("E2E_TIMEOUT", 10*time.Minute),
	}
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}

	return defaultValue
}
