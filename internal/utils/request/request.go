package request

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode string    `json:"error_code"`
	Timestamp time.Time `json:"timestamp"`
}

// AbortWithError writes an ErrorResponse and stops the handler chain.
func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC(),
	})
}

// Page is a 1-based page window over a list.
type Page struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// ParsePage reads the page and size query parameters. Page starts at 1 and
// size is between 1 and MaxPageSize.
func ParsePage(c *gin.Context) (Page, error) {
	p := Page{Page: 1, Size: DefaultPageSize}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("page must be an integer >= 1, got %q", v)
		}

		p.Page = n
	}

	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageSize {
			return p, fmt.Errorf("size must be an integer between 1 and %d, got %q", MaxPageSize, v)
		}

		p.Size = n
	}

	return p, nil
}

// Paginate returns the slice of items inside p. Pages past the end, however
// large, are empty.
func Paginate[T any](items []T, p Page) []T {
	if p.Page < 1 || p.Size < 1 {
		return []T{}
	}

	// compare page counts so (Page-1)*Size is only computed when it is below len(items)
	pages := (len(items) + p.Size - 1) / p.Size
	if p.Page-1 >= pages {
		return []T{}
	}

	start := (p.Page - 1) * p.Size

	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}
