package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/orchestra-io/orchestra/internal/version.version=..."
var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s)",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
