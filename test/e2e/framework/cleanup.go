package framework

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive,stylecheck
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/orchestra-io/orchestra/pkg/client"
)

// CleanupWorkshops deletes each workshop and waits for it to disappear.
func CleanupWorkshops(ctx context.Context, c *client.Client, names []string) error {
	var errs []error

	waitOpts := WaitOptions{
		Timeout:  2 * time.Minute,
		Interval: 2 * time.Second,
	}

	for _, name := range names {
		if err := c.Workshops.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete workshop %s: %w", name, err))
			continue
		}

		if err := WaitForDeleted(ctx, c, name, waitOpts); err != nil {
			errs = append(errs, err)
		}
	}

	return utilerrors.NewAggregate(errs)
}

// CleanupWorkshopsIgnoreErrors is CleanupWorkshops for AfterAll blocks.
func CleanupWorkshopsIgnoreErrors(ctx context.Context, c *client.Client, names []string) {
	if err := CleanupWorkshops(ctx, c, names); err != nil {
		GinkgoWriter.Printf("Warning: cleanup failed: %v\n", err)
	}
}
