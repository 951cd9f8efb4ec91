package cron

import (
	"context"
	"time"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/orchestra-io/orchestra/internal/metrics"
	"github.com/orchestra-io/orchestra/internal/workshop"
)

// Lifecycle is the subset of the lifecycle manager the sweeper drives. Deletes
// go through the same per-name lock as user requests.
type Lifecycle interface {
	ListWorkshops(ctx context.Context, namespace string) ([]workshop.Workshop, error)
	DeleteWorkshop(ctx context.Context, namespace, name string) error
}

// Sweeper deletes workshops whose expiry has passed.
type Sweeper struct {
	lifecycle Lifecycle
	clock     clock.PassiveClock
}

func NewSweeper(lifecycle Lifecycle, c clock.PassiveClock) *Sweeper {
	if c == nil {
		c = clock.RealClock{}
	}

	return &Sweeper{
		lifecycle: lifecycle,
		clock:     c,
	}
}

// Sweep runs one pass over every namespace. A failure on one workshop is
// logged and does not stop the pass; all failures are returned together.
func (s *Sweeper) Sweep(ctx context.Context) error {
	workshops, err := s.lifecycle.ListWorkshops(ctx, metav1.NamespaceAll)
	if err != nil {
		metrics.SweeperRuns.WithLabelValues(metrics.ResultError).Inc()
		return errors.Wrap(err, "failed to list workshops")
	}

	now := s.clock.Now()

	var errs []error

	for i := range workshops {
		w := &workshops[i]

		expiresAt := w.Status.ExpiresAt
		if expiresAt.IsZero() || now.Before(expiresAt) {
			continue
		}

		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		klog.Infof("Deleting expired workshop %s/%s (expired at %s)", w.Namespace, w.Name, expiresAt.Format(time.RFC3339))

		if err := s.lifecycle.DeleteWorkshop(ctx, w.Namespace, w.Name); err != nil {
			klog.Errorf("Failed to delete expired workshop %s/%s: %v", w.Namespace, w.Name, err)
			metrics.SweeperDeletions.WithLabelValues(metrics.ResultError).Inc()
			errs = append(errs, errors.Wrapf(err, "workshop %s/%s", w.Namespace, w.Name))

			continue
		}

		metrics.SweeperDeletions.WithLabelValues(metrics.ResultSuccess).Inc()
	}

	if len(errs) > 0 {
		metrics.SweeperRuns.WithLabelValues(metrics.ResultError).Inc()
		return utilerrors.NewAggregate(errs)
	}

	metrics.SweeperRuns.WithLabelValues(metrics.ResultSuccess).Inc()

	return nil
}
