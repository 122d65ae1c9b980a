// Package version provides the build version information for the markerindex binaries.
package version

import (
	"reflect"
	"strconv"
	"strings"
)

// Version is the release version, injected via ldflags at build time.
var Version = "dev"

// Commit is the git commit hash, injected via ldflags at build time.
var Commit = "none"

// Date is the build date, injected via ldflags at build time.
var Date = "unknown"

// BinaryGitHash is the Git hash of the markerindex binary file which is executing.
var BinaryGitHash = "<unknown>"

// Binary is the module's major API version, taken from a "/vN" element of
// the package path (e.g. 2 for github.com/.../markerindex/v2). It stays 0
// when the path has no such element.
var Binary = 0

type versionProbe struct{}

// InitBinaryVersion extracts the API version from the package path and sets Binary.
func InitBinaryVersion() {
	for _, part := range strings.Split(reflect.TypeFor[versionProbe]().PkgPath(), "/") {
		if len(part) < 2 || part[0] != 'v' {
			continue
		}

		parsed, parseErr := strconv.Atoi(part[1:])
		if parseErr == nil {
			Binary = parsed
		}
	}
}
