package cron

import (
	"context"
	"time"

	gocron "github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// StartCrons schedules the expiry sweeper every interval and stops the
// scheduler when ctx is done.
func StartCrons(ctx context.Context, sweeper *Sweeper, interval time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("invalid sweep interval %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrapf(err, "failed to init cron scheduler")
	}

	// A slow sweep skips the next tick instead of queueing behind it.
	_, err = s.NewJob(gocron.DurationJob(interval), gocron.NewTask(func() {
		klog.V(4).Infof("Start to sweep expired workshops")

		if jobErr := sweeper.Sweep(ctx); jobErr != nil {
			klog.Errorf("Failed to sweep expired workshops: %v", jobErr)
		}
	}), gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return errors.Wrapf(err, "failed to add expiry sweeper cron job")
	}

	s.Start()

	go func() {
		<-ctx.Done()

		err := s.Shutdown()
		if err != nil {
			klog.Errorf("Failed to shutdown cron scheduler: %v", err)
		}
	}()

	return nil
}
