package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// SweeperOptions holds expiry sweeper options
type SweeperOptions struct {
	Interval time.Duration
	Disabled bool
}

func NewSweeperOptions() *SweeperOptions {
	return &SweeperOptions{
		Interval: time.Minute,
	}
}

func (o *SweeperOptions) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.Interval, "sweep-interval", o.Interval, "how often expired workshops are removed")
	fs.BoolVar(&o.Disabled, "disable-sweeper", o.Disabled, "do not remove expired workshops")
}

func (o *SweeperOptions) Validate() error {
	if !o.Disabled && o.Interval < time.Second {
		return fmt.Errorf("--sweep-interval must be at least 1s, got %s", o.Interval)
	}

	return nil
}
