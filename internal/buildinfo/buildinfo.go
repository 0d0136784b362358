// Package buildinfo holds build-time metadata injected with -ldflags:
//
//	go build -ldflags "-X github.com/tphakala/nutridri/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "fmt"

// UnknownValue is reported for metadata that was not set at build time.
const UnknownValue = "unknown"

// Set by the linker.
var (
	Version   string
	BuildDate string
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string
	BuildDate string
}

// Current returns the metadata of the running binary.
func Current() Info {
	return Info{Version: Version, BuildDate: BuildDate}
}

// GetVersion returns the version, or UnknownValue when unset.
func (i Info) GetVersion() string {
	if i.Version == "" {
		return UnknownValue
	}
	return i.Version
}

// GetBuildDate returns the build date, or UnknownValue when unset.
func (i Info) GetBuildDate() string {
	if i.BuildDate == "" {
		return UnknownValue
	}
	return i.BuildDate
}

func (i Info) String() string {
	return fmt.Sprintf("%s (built %s)", i.GetVersion(), i.GetBuildDate())
}
