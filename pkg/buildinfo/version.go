// Package buildinfo reports which jsonviz build is running.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/jsonviz/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/jsonviz/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/jsonviz
//
// Builds made with go install fall back to the module version and VCS stamp
// embedded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// Version is the release version, e.g. "v0.3.0".
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is a snapshot of the build variables.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

var (
	once   sync.Once
	cached Info
)

// Get returns the build information, completing unset variables from the
// toolchain's embedded build metadata.
func Get() Info {
	once.Do(func() {
		cached = Info{Version: Version, Commit: Commit, Date: Date}
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if cached.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			cached.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && cached.Commit == "none":
				cached.Commit = s.Value
			case s.Key == "vcs.time" && cached.Date == "unknown":
				cached.Date = s.Value
			}
		}
	})
	return cached
}

// String returns the formatted build information.
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the version template for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
