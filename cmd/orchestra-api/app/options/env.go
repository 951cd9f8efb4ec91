package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// EnvPrefix is prepended to the upper snake case flag name, so --jwt-secret
// is read from ORCHESTRA_JWT_SECRET.
const EnvPrefix = "ORCHESTRA_"

// EnvName returns the environment variable backing the named flag.
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// ApplyEnv sets every flag that was not given on the command line from its
// environment variable, when present. Flags win over the environment.
func ApplyEnv(fs *pflag.FlagSet, lookup func(string) (string, bool)) error {
	var errs []error

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}

		value, ok := lookup(EnvName(f.Name))
		if !ok {
			return
		}

		if err := fs.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvName(f.Name), err))
		}
	})

	return utilerrors.NewAggregate(errs)
}
