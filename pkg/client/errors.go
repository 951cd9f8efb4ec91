package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response decoded from the server error body.
type APIError struct {
	StatusCode int
	Code       string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}

	if e.Code == "" {
		return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}
