package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/contactdesk/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/contactdesk/internal/version.Commit=abc123"
//
// Unset values are filled from the VCS stamp in the build info, or a dev
// timestamp as a last resort.
var (
	Version = ""
	Commit  = ""
)

// Product is the program name used in the User-Agent and version output.
const Product = "contactdesk"

func init() {
	if Version == "" || Commit == "" {
		fillFromBuildInfo(readBuildInfo())
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func readBuildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// fillFromBuildInfo copies the vcs.* settings into Version and Commit where
// they are still empty.
func fillFromBuildInfo(info *debug.BuildInfo) {
	if info == nil {
		return
	}

	// A tagged module build carries a real version.
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; Commit == "" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if settings["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		Commit = rev
	}

	if Version == "" {
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = "dev-" + t.Format("20060102")
		}
	}
}

// Full returns the version including the commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the User-Agent sent with every API request,
// e.g. "contactdesk/v0.3.0 (linux/amd64)".
func UserAgent() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("%s/%s (%s/%s)", Product, v, runtime.GOOS, runtime.GOARCH)
}
