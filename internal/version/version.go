// Package version reports what build of the faucet client is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	// Set via -ldflags "-X .../internal/version.Version=..." by release builds.
	Version = ""
	Commit  = ""
	Date    = ""

	once sync.Once

	readBuildInfo = debug.ReadBuildInfo
)

const shortCommit = 12

func ensureInitialized() {
	once.Do(func() {
		info, ok := readBuildInfo()
		if ok {
			fromBuildInfo(info)
		}
		if Version == "" {
			Version = "dev"
		}
		if Commit == "" {
			Commit = "unknown"
		}
		if Date == "" {
			Date = "unknown"
		}
	})
}

// fromBuildInfo fills whatever ldflags left empty from the module and VCS
// stamps the go command embeds.
func fromBuildInfo(info *debug.BuildInfo) {
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = trimV(info.Main.Version)
	}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			if Date == "" {
				Date = s.Value
			}
		case "vcs.modified":
			modified = s.Value
		}
	}
	if Commit == "" && revision != "" {
		if len(revision) > shortCommit {
			revision = revision[:shortCommit]
		}
		if modified == "true" {
			revision += "-dirty"
		}
		Commit = revision
	}
}

func trimV(v string) string {
	if len(v) > 1 && v[0] == 'v' {
		return v[1:]
	}
	return v
}

// Reset clears resolved values so they are computed again.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// GetVersion returns the semantic version without the "v" prefix.
func GetVersion() string {
	ensureInitialized()
	return Version
}

// GetCommit returns the commit the binary was built from.
func GetCommit() string {
	ensureInitialized()
	return Commit
}

// GetDate returns the build or commit date.
func GetDate() string {
	ensureInitialized()
	return Date
}

// Info returns a one-line build description.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("sui-faucet-tui %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
