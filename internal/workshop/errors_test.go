package workshop

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid name", ErrInvalidName, CodeInvalidInput},
		{"wrapped quantity", pkgerrors.Wrapf(ErrInvalidQuantity, "resources.cpu %q", "lots"), CodeInvalidInput},
		{"conflict", fmt.Errorf("%w: workshop ws1 already exists", ErrConflict), CodeConflict},
		{"not found", pkgerrors.Wrap(ErrNotFound, "workshop ws1"), CodeNotFound},
		{"unreachable", fmt.Errorf("%w: dial tcp: connection refused", ErrUnreachable), CodeUnreachable},
		{"unclassified", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Code(tt.err), tt.want)
		})
	}
}

func TestDetailedErrorsAreInvalidInput(t *testing.T) {
	for _, err := range []error{ErrInvalidName, ErrInvalidDuration, ErrInvalidQuantity, ErrInvalidImage, ErrInvalidHost} {
		assert.Assert(t, errors.Is(err, ErrInvalidInput), "%v", err)
		assert.Assert(t, !errors.Is(err, ErrConflict), "%v", err)
	}
}
