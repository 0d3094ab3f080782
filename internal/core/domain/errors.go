package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Configuration errors. These surface before any node runs.
var (
	// ErrUnrecognizedPlatform is returned when a platform identifier has no target mapping.
	ErrUnrecognizedPlatform = zerr.New("unrecognized platform")

	// ErrConfigNotFound is returned when the project configuration file cannot be found.
	ErrConfigNotFound = zerr.New("could not find crate.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the config file is well-formed but unusable.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrNoPlatforms is returned when a build is requested without any platform.
	ErrNoPlatforms = zerr.New("no platforms specified")
)

// Manifest errors. These also surface at configuration time.
var (
	// ErrMetadataFailed is returned when the toolchain metadata query fails or is unreadable.
	ErrMetadataFailed = zerr.New("failed to query package metadata")

	// ErrPackageNotFound is returned when no package owns the located manifest.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrNoDefaultBinary is returned when the package has no binary target named after itself.
	ErrNoDefaultBinary = zerr.New("no default binary target")

	// ErrSourceDiscoveryFailed is returned when the package sources cannot be enumerated.
	ErrSourceDiscoveryFailed = zerr.New("failed to discover package sources")
)

// Build errors. These are raised while a node runs.
var (
	// ErrBuildFailure is returned when the external build command exits non-zero.
	ErrBuildFailure = zerr.New("external build failed")

	// ErrArtifactMissing is returned when the build reported success but produced no artifact.
	ErrArtifactMissing = zerr.New("expected build output missing")

	// ErrArtifactCopyFailed is returned when the artifact cannot be copied to the declared output.
	ErrArtifactCopyFailed = zerr.New("failed to copy build output")

	// ErrNodeAlreadyRun is returned when a node that already reached a terminal state is run again.
	ErrNodeAlreadyRun = zerr.New("node already ran")
)

// Host engine errors.
var (
	// ErrTaskAlreadyExists is returned when two nodes share a name.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrDuplicateOutput is returned when two nodes declare the same output path.
	ErrDuplicateOutput = zerr.New("output declared by more than one task")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrBuildExecutionFailed is returned when at least one node of a build failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrInputHashComputationFailed is returned when input hash computation fails.
	ErrInputHashComputationFailed = zerr.New("failed to compute input hash")

	// ErrInputNotFound is returned when a declared input file does not exist.
	ErrInputNotFound = zerr.New("input not found")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")
)

// ExitCode returns the subprocess exit code recorded on err, if any.
func ExitCode(err error) (int, bool) {
	for err != nil {
		var z *zerr.Error
		if !errors.As(err, &z) {
			return 0, false
		}
		if code, ok := z.Metadata()["exit_code"].(int); ok {
			return code, true
		}
		err = z.Unwrap()
	}
	return 0, false
}
