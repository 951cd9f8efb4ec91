package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.True(t, strings.HasPrefix(info.String(), info.Version+" (commit "))
}
