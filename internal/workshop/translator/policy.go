package translator

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/resource"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Policy is the defaulting and bounds table applied to every request.
type Policy struct {
	DefaultImage        string
	DefaultDuration     string
	MaxDuration         time.Duration
	DefaultStorageClass string

	DefaultCPU           resource.Quantity
	DefaultMemory        resource.Quantity
	DefaultCPURequest    resource.Quantity
	DefaultMemoryRequest resource.Quantity
	DefaultStorage       resource.Quantity

	MaxCPU     resource.Quantity
	MaxMemory  resource.Quantity
	MaxStorage resource.Quantity
}

// DefaultPolicy returns the documented defaults: cpu=1, memory=2Gi,
// storage=5Gi, requests 500m/1Gi clamped to their limits, at most 7 days.
func DefaultPolicy() Policy {
	return Policy{
		DefaultImage:    "rocker/rstudio:latest",
		DefaultDuration: "4h",
		MaxDuration:     7 * 24 * time.Hour,

		DefaultCPU:           resource.MustParse("1"),
		DefaultMemory:        resource.MustParse("2Gi"),
		DefaultCPURequest:    resource.MustParse("500m"),
		DefaultMemoryRequest: resource.MustParse("1Gi"),
		DefaultStorage:       resource.MustParse("5Gi"),

		MaxCPU:     resource.MustParse("8"),
		MaxMemory:  resource.MustParse("64Gi"),
		MaxStorage: resource.MustParse("500Gi"),
	}
}

// ValidatePolicy checks that every default lies within its bound, so a
// request that names nothing is always accepted.
func ValidatePolicy(p Policy) error {
	var errs []error

	if p.DefaultImage == "" {
		errs = append(errs, fmt.Errorf("default image must not be empty"))
	}

	d, err := time.ParseDuration(p.DefaultDuration)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("default duration %q: %w", p.DefaultDuration, err))
	case d <= 0:
		errs = append(errs, fmt.Errorf("default duration %q must be positive", p.DefaultDuration))
	case p.MaxDuration > 0 && d > p.MaxDuration:
		errs = append(errs, fmt.Errorf("default duration %q exceeds maximum %s", p.DefaultDuration, p.MaxDuration))
	}

	bounds := []struct {
		name       string
		def, upper resource.Quantity
	}{
		{"cpu", p.DefaultCPU, p.MaxCPU},
		{"memory", p.DefaultMemory, p.MaxMemory},
		{"storage", p.DefaultStorage, p.MaxStorage},
	}
	for _, b := range bounds {
		if b.def.Sign() <= 0 {
			errs = append(errs, fmt.Errorf("default %s must be positive", b.name))
			continue
		}

		if !b.upper.IsZero() && b.def.Cmp(b.upper) > 0 {
			errs = append(errs, fmt.Errorf("default %s %s exceeds maximum %s", b.name, b.def.String(), b.upper.String()))
		}
	}

	return utilerrors.NewAggregate(errs)
}
