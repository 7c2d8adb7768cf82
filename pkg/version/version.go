// Package version provides version information for the gptloader CLI.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time, e.g.
// go build -ldflags "-X 'gptloader/pkg/version.Version=0.3.0' -X 'gptloader/pkg/version.Commit=abcdefg'"
var (
	Version   = "dev"     // Semantic version of the application
	Commit    = "none"    // Git commit hash
	BuildTime = "unknown" // Build timestamp
)

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders Info on a single line, e.g.
// gptloader version 0.3.0 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.24.2 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf("gptloader version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
