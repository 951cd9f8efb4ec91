package resource

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/orchestra-io/orchestra/internal/workshop"
)

// classify maps a cluster API error onto the workshop taxonomy. The original
// error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var status apierrors.APIStatus
	if !errors.As(err, &status) {
		// no status from the API server: transport, dial or deadline failure
		return fmt.Errorf("%w: %w", workshop.ErrUnreachable, err)
	}

	switch {
	case apierrors.IsNotFound(err):
		return fmt.Errorf("%w: %w", workshop.ErrNotFound, err)
	case apierrors.IsAlreadyExists(err):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	case apierrors.IsConflict(err):
		return fmt.Errorf("%w: %w", workshop.ErrConflict, err)
	case apierrors.IsInvalid(err), apierrors.IsBadRequest(err):
		return fmt.Errorf("%w: %w", workshop.ErrInvalidInput, err)
	case apierrors.IsUnauthorized(err),
		apierrors.IsForbidden(err),
		apierrors.IsTimeout(err),
		apierrors.IsServerTimeout(err),
		apierrors.IsTooManyRequests(err),
		apierrors.IsServiceUnavailable(err),
		apierrors.IsInternalError(err),
		apierrors.IsUnexpectedServerError(err):
		return fmt.Errorf("%w: %w", workshop.ErrUnreachable, err)
	default:
		return err
	}
}

// IsRetryable reports whether err is an Unreachable failure that may succeed
// on a later attempt: transport failures, timeouts, throttling and 5xx.
// Rejected credentials are Unreachable too but are never retryable.
func IsRetryable(err error) bool {
	if !errors.Is(err, workshop.ErrUnreachable) {
		return false
	}

	return !apierrors.IsUnauthorized(err) && !apierrors.IsForbidden(err)
}
