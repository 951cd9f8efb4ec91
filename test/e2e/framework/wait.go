package framework

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive,stylecheck

	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/pkg/client"
)

// WaitOptions configures the wait behavior.
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultWaitOptions provides sensible defaults for waiting.
var DefaultWaitOptions = WaitOptions{
	Timeout:  5 * time.Minute,
	Interval: 5 * time.Second,
}

func applyDefaults(opts *WaitOptions) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultWaitOptions.Timeout
	}

	if opts.Interval == 0 {
		opts.Interval = DefaultWaitOptions.Interval
	}
}

// WaitForPhase polls the workshop status until it reaches expected. A Failed
// phase ends the wait early unless it is the expected one.
func WaitForPhase(ctx context.Context, c *client.Client, name string, expected workshop.Phase, opts WaitOptions) (*workshop.Status, error) {
	applyDefaults(&opts)
	deadline := time.Now().Add(opts.Timeout)

	var (
		lastErr   error
		lastPhase workshop.Phase
	)

	for time.Now().Before(deadline) {
		st, err := c.Workshops.Status(ctx, name)
		if err != nil {
			lastErr = err
			GinkgoWriter.Printf("Warning: transient error getting status of workshop %s: %v\n", name, err)
			time.Sleep(opts.Interval)

			continue
		}

		if st.Status.Phase != lastPhase {
			GinkgoWriter.Printf("Workshop %s is %s: %s\n", name, st.Status.Phase, st.Status.Message)
			lastPhase = st.Status.Phase
		}

		if st.Status.Phase == expected {
			return &st.Status, nil
		}

		if st.Status.Phase == workshop.PhaseFailed {
			return &st.Status, fmt.Errorf("workshop %s failed: %s", name, st.Status.Message)
		}

		time.Sleep(opts.Interval)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("timeout waiting for workshop %s to reach phase %s (last error: %w)", name, expected, lastErr)
	}

	return nil, fmt.Errorf("timeout waiting for workshop %s to reach phase %s, last phase %s", name, expected, lastPhase)
}

// WaitForDeleted polls until the workshop is no longer found.
func WaitForDeleted(ctx context.Context, c *client.Client, name string, opts WaitOptions) error {
	applyDefaults(&opts)
	deadline := time.Now().Add(opts.Timeout)

	for time.Now().Before(deadline) {
		_, err := c.Workshops.Get(ctx, name)
		if client.IsNotFound(err) {
			return nil
		}

		time.Sleep(opts.Interval)
	}

	return fmt.Errorf("timeout waiting for workshop %s to be deleted", name)
}
