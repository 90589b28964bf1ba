// Package version reports the build version of nutriboard.
package version

import "runtime/debug"

// Set at build time with:
//
//	-ldflags "-X github.com/rshade/nutriboard/pkg/version.version=v1.2.3"
//
//nolint:gochecknoglobals // ldflags target.
var version = ""

const devVersion = "dev"

// GetVersion returns the ldflags version, the module version recorded by
// go install, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion
}
