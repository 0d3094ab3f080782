package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "crate.yaml"

	// StateDirName is the name of the internal state directory.
	StateDirName = ".crate"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// DefaultToolchain is the toolchain executable used when none is configured.
	DefaultToolchain = "cargo"

	// DefaultBuildDir is the directory that receives node outputs.
	DefaultBuildDir = "build"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the build info store directory, relative to the project root.
func DefaultStorePath() string {
	return filepath.Join(StateDirName, StoreDirName)
}
