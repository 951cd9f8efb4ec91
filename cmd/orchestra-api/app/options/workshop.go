package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/api/resource"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/orchestra-io/orchestra/internal/workshop/projector"
	"github.com/orchestra-io/orchestra/internal/workshop/translator"
)

// WorkshopOptions holds the defaulting and bounds policy for new workshops
type WorkshopOptions struct {
	DefaultImage        string
	DefaultDuration     string
	MaxDuration         time.Duration
	ExpiringGrace       time.Duration
	DefaultStorageClass string

	DefaultCPU           string
	DefaultMemory        string
	DefaultCPURequest    string
	DefaultMemoryRequest string
	DefaultStorage       string
	MaxCPU               string
	MaxMemory            string
	MaxStorage           string
}

func NewWorkshopOptions() *WorkshopOptions {
	p := translator.DefaultPolicy()

	return &WorkshopOptions{
		DefaultImage:    p.DefaultImage,
		DefaultDuration: p.DefaultDuration,
		MaxDuration:     p.MaxDuration,
		ExpiringGrace:   projector.DefaultGrace,

		DefaultCPU:           p.DefaultCPU.String(),
		DefaultMemory:        p.DefaultMemory.String(),
		DefaultCPURequest:    p.DefaultCPURequest.String(),
		DefaultMemoryRequest: p.DefaultMemoryRequest.String(),
		DefaultStorage:       p.DefaultStorage.String(),
		MaxCPU:               p.MaxCPU.String(),
		MaxMemory:            p.MaxMemory.String(),
		MaxStorage:           p.MaxStorage.String(),
	}
}

func (o *WorkshopOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.DefaultImage, "default-image", o.DefaultImage, "image used when a request names none")
	fs.StringVar(&o.DefaultDuration, "default-duration", o.DefaultDuration, "duration used when a request names none")
	fs.DurationVar(&o.MaxDuration, "max-duration", o.MaxDuration, "longest duration a workshop may request")
	fs.DurationVar(&o.ExpiringGrace, "expiring-grace", o.ExpiringGrace, "window before expiry in which a workshop is reported as Expiring")
	fs.StringVar(&o.DefaultStorageClass, "default-storage-class", o.DefaultStorageClass, "storage class used when a request names none")

	fs.StringVar(&o.DefaultCPU, "default-cpu", o.DefaultCPU, "default cpu limit")
	fs.StringVar(&o.DefaultMemory, "default-memory", o.DefaultMemory, "default memory limit")
	fs.StringVar(&o.DefaultCPURequest, "default-cpu-request", o.DefaultCPURequest, "default cpu request, clamped to the limit")
	fs.StringVar(&o.DefaultMemoryRequest, "default-memory-request", o.DefaultMemoryRequest, "default memory request, clamped to the limit")
	fs.StringVar(&o.DefaultStorage, "default-storage", o.DefaultStorage, "default storage size")
	fs.StringVar(&o.MaxCPU, "max-cpu", o.MaxCPU, "largest cpu limit a workshop may request")
	fs.StringVar(&o.MaxMemory, "max-memory", o.MaxMemory, "largest memory limit a workshop may request")
	fs.StringVar(&o.MaxStorage, "max-storage", o.MaxStorage, "largest storage size a workshop may request")
}

func (o *WorkshopOptions) Validate() error {
	_, err := o.Policy()
	if err != nil {
		return err
	}

	if o.ExpiringGrace < 0 {
		return fmt.Errorf("--expiring-grace must not be negative")
	}

	return nil
}

// Policy parses the options into a translator policy. The policy itself is
// checked by translating a request made only of defaults.
func (o *WorkshopOptions) Policy() (translator.Policy, error) {
	p := translator.Policy{
		DefaultImage:        o.DefaultImage,
		DefaultDuration:     o.DefaultDuration,
		MaxDuration:         o.MaxDuration,
		DefaultStorageClass: o.DefaultStorageClass,
	}

	var errs []error

	parse := func(flag, value string, into *resource.Quantity) {
		q, err := resource.ParseQuantity(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("--%s %q: %w", flag, value, err))
			return
		}

		*into = q
	}

	parse("default-cpu", o.DefaultCPU, &p.DefaultCPU)
	parse("default-memory", o.DefaultMemory, &p.DefaultMemory)
	parse("default-cpu-request", o.DefaultCPURequest, &p.DefaultCPURequest)
	parse("default-memory-request", o.DefaultMemoryRequest, &p.DefaultMemoryRequest)
	parse("default-storage", o.DefaultStorage, &p.DefaultStorage)
	parse("max-cpu", o.MaxCPU, &p.MaxCPU)
	parse("max-memory", o.MaxMemory, &p.MaxMemory)
	parse("max-storage", o.MaxStorage, &p.MaxStorage)

	if len(errs) > 0 {
		return p, utilerrors.NewAggregate(errs)
	}

	if err := translator.ValidatePolicy(p); err != nil {
		return p, err
	}

	return p, nil
}
