package workshop

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every workshop component. Finer-grained errors wrap
// one of these so callers classify with errors.Is.
var (
	// ErrInvalidInput is returned for malformed requests: names, durations, quantities.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when a workshop with the same name already exists.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when the target workshop is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnreachable is returned when the cluster store is unavailable or rejects our credentials.
	ErrUnreachable = errors.New("cluster store unreachable")
)

var (
	ErrInvalidName      = fmt.Errorf("%w: invalid name", ErrInvalidInput)
	ErrInvalidNamespace = fmt.Errorf("%w: invalid namespace", ErrInvalidInput)
	ErrInvalidDuration  = fmt.Errorf("%w: invalid duration", ErrInvalidInput)
	ErrInvalidQuantity  = fmt.Errorf("%w: invalid quantity", ErrInvalidInput)
	ErrInvalidImage     = fmt.Errorf("%w: invalid image", ErrInvalidInput)
	ErrInvalidHost      = fmt.Errorf("%w: invalid ingress host", ErrInvalidInput)
)

// Machine-readable error codes returned by Code.
const (
	CodeInvalidInput = "invalid_input"
	CodeConflict     = "conflict"
	CodeNotFound     = "not_found"
	CodeUnreachable  = "unreachable"
	CodeInternal     = "internal"
)

// Code returns a stable machine-readable code for err, or "internal" when err
// does not belong to the taxonomy.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnreachable):
		return CodeUnreachable
	default:
		return CodeInternal
	}
}
