// Package buildinfo exposes version information for worldsync binaries.
//
// Release builds inject values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/worldsync/internal/infra/buildinfo.Version=v0.3.0 \
//	  -X github.com/yndnr/worldsync/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Values not injected fall back to what the Go toolchain embedded.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"sync"
)

// Set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Modified  bool   `json:"modified,omitempty"`
}

var (
	once sync.Once
	info Info
)

// Get returns the build information.
func Get() Info {
	once.Do(func() {
		info = resolve(Version, Commit, BuildTime, debug.ReadBuildInfo)
	})
	return info
}

// String returns a one-line version string.
func String() string {
	i := Get()
	return i.Version + " (" + i.Commit + ") built at " + i.BuildTime
}

func resolve(version, commit, built string, read func() (*debug.BuildInfo, bool)) Info {
	out := Info{
		Version:   version,
		Commit:    commit,
		BuildTime: built,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := read()
	if !ok {
		return out
	}
	if out.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		out.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if out.Commit == "unknown" {
				out.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if out.BuildTime == "unknown" {
				out.BuildTime = s.Value
			}
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}
	return out
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
