// Package build holds build-time information.
package build

// Version and Commit identify the binary.
// They default to "dev" and "unknown" and are overwritten by linker flags:
//
//	-ldflags "-X go.trai.ch/crate/internal/build.Version=v0.1.0 -X go.trai.ch/crate/internal/build.Commit=abc123"
var (
	Version = "dev"
	Commit  = "unknown"
)
