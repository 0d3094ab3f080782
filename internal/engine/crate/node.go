// Package crate builds one externally toolchained package as a node of the build graph.
package crate

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
)

// Node builds the package for one platform and places the artifact at its declared output.
// A Node runs at most once; deciding whether it needs to run is up to the caller.
type Node struct {
	task     domain.Task
	platform domain.Platform
	target   domain.Target
	profile  domain.Profile
	manifest domain.PackageManifest
	flags    domain.FlagSet
	mapFile  string
	executor ports.Executor

	mu     sync.Mutex
	status domain.TaskStatus
}

// Name returns the node name, "{platform}/{package}".
func (n *Node) Name() string {
	return n.task.Name.String()
}

// Task returns a copy of the node's declaration.
func (n *Node) Task() *domain.Task {
	t := n.task
	t.Command = append([]string(nil), n.task.Command...)
	t.Inputs = append([]domain.InternedString(nil), n.task.Inputs...)
	t.Environment = make(map[string]string, len(n.task.Environment))
	for k, v := range n.task.Environment {
		t.Environment[k] = v
	}
	return &t
}

// Platform returns the platform the node builds for.
func (n *Node) Platform() domain.Platform {
	return n.platform
}

// Target returns the resolved cross-compilation target.
func (n *Node) Target() domain.Target {
	return n.target
}

// Profile returns the build profile.
func (n *Node) Profile() domain.Profile {
	return n.profile
}

// Manifest returns the resolved package.
func (n *Node) Manifest() domain.PackageManifest {
	return n.manifest
}

// Flags returns the composed flag set.
func (n *Node) Flags() domain.FlagSet {
	return n.flags
}

// Output returns the declared output path.
func (n *Node) Output() string {
	return n.task.Output.String()
}

// MapFile returns the linker symbol map path, or "" when no map is emitted.
func (n *Node) MapFile() string {
	return n.mapFile
}

// ArtifactPath returns where the toolchain leaves the binary.
func (n *Node) ArtifactPath() string {
	return n.manifest.ArtifactPath(n.target, n.profile)
}

// Status returns the node's current status.
func (n *Node) Status() domain.TaskStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

// MarkCached records that the caller skipped the node because its output is up to date.
func (n *Node) MarkCached() error {
	return n.transition(domain.StatusCached)
}

func (n *Node) transition(to domain.TaskStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.status != domain.StatusPending {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrNodeAlreadyRun, "cannot run node"), "node", n.Name()), "status", string(n.status))
	}
	n.status = to
	return nil
}

func (n *Node) finish(status domain.TaskStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = status
}

// Run invokes the toolchain and copies the artifact to the declared output.
// Subprocess output is copied to stdout and stderr, which may be nil.
func (n *Node) Run(ctx context.Context, stdout, stderr io.Writer) error {
	if err := n.transition(domain.StatusRunning); err != nil {
		return err
	}

	// The linker opens the map file itself and does not create its directory.
	if n.mapFile != "" {
		if err := os.MkdirAll(filepath.Dir(n.mapFile), domain.DirPerm); err != nil {
			n.finish(domain.StatusFailed)
			err := zerr.With(zerr.Wrap(err, "failed to create symbol map directory"), "map_file", n.mapFile)
			return zerr.With(err, "platform", n.platform.String())
		}
	}

	task := n.Task()
	if err := n.executor.Execute(ctx, task, nil, stdout, stderr); err != nil {
		n.finish(domain.StatusFailed)
		return n.buildFailure(err)
	}

	if err := n.materialize(); err != nil {
		n.finish(domain.StatusFailed)
		return err
	}

	n.finish(domain.StatusCompleted)
	return nil
}

func (n *Node) buildFailure(cause error) error {
	err := zerr.Wrap(domain.ErrBuildFailure, cause.Error())
	if code, ok := domain.ExitCode(cause); ok {
		err = zerr.With(err, "exit_code", code)
	}
	err = zerr.With(err, "command", strings.Join(n.task.Command, " "))
	err = zerr.With(err, "platform", n.platform.String())
	return zerr.With(err, "package", n.manifest.Name)
}

// materialize copies the artifact through a temporary file in the output directory,
// so the declared output either holds the complete artifact or is left untouched.
func (n *Node) materialize() error {
	src := n.ArtifactPath()
	dst := n.Output()

	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		err := zerr.With(zerr.Wrap(domain.ErrArtifactMissing, "toolchain reported success"), "artifact", src)
		return zerr.With(zerr.With(err, "platform", n.platform.String()), "package", n.manifest.Name)
	}

	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		err := zerr.With(zerr.Wrap(domain.ErrArtifactCopyFailed, err.Error()), "artifact", src)
		return zerr.With(err, "output", dst)
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) (err error) {
	in, err := os.Open(src) //nolint:gosec // artifact path is derived from toolchain metadata
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
