// Package version reports which hunter build is running.
//
// Release builds stamp the variables below with ldflags:
//
//	go build -ldflags "-X github.com/joenandez/codename-hunter/internal/version.Version=1.0.0 ..."
//
// Binaries from `go install` carry no ldflags, so anything left unset is
// filled from the module and VCS data the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = ""
	Dirty     = ""
	BuildDate = ""
)

const unknown = "unknown"

// shortCommit matches the length of the commits stamped by the release build.
const shortCommit = 12

var readBuildInfo = debug.ReadBuildInfo

// Info is what `hunter version --json` prints.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get merges the ldflags values with the embedded build info.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = strings.TrimPrefix(bi.Main.Version, "v")
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
					if len(info.Commit) > shortCommit {
						info.Commit = info.Commit[:shortCommit]
					}
				}
			case "vcs.modified":
				if Dirty == "" {
					info.Dirty = s.Value == "true"
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}

	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.BuildDate == "" {
		info.BuildDate = unknown
	}
	return info
}

// String is the version shown by `hunter --version`.
func String() string {
	info := Get()
	if info.Dirty {
		return info.Version + "-dirty"
	}
	return info.Version
}

// Full is the multi-line report of `hunter version`.
func Full() string {
	info := Get()
	v := info.Version
	if info.Dirty {
		v += "-dirty"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "hunter %s\n", v)
	fmt.Fprintf(&sb, "  Commit:     %s\n", info.Commit)
	if info.Dirty {
		sb.WriteString("  Dirty:      yes\n")
	}
	fmt.Fprintf(&sb, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", info.Platform)
	return sb.String()
}
