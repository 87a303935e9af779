// Package version provides build information for nps.
package version

import (
	"fmt"
	"runtime"
)

// Info contains version information about nps.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVer   string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// NewInfo creates a new Info from the build variables.
func NewInfo(version, commit, date string) *Info {
	return &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func (i *Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a detailed version string.
func (i *Info) FullString() string {
	return fmt.Sprintf(`nps %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch)
}
