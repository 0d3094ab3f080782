package crate_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/crate/internal/adapters/fs"
	"go.trai.ch/crate/internal/adapters/logger"
	"go.trai.ch/crate/internal/adapters/shell"
	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports/mocks"
	"go.trai.ch/crate/internal/engine/crate"
	"go.uber.org/mock/gomock"
)

// fixture is a package named "hello" with a stub toolchain.
type fixture struct {
	root      string
	toolchain string
	manifest  domain.PackageManifest
	project   *domain.Project
}

func newFixture(t *testing.T, script string) *fixture {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "Cargo.toml"), "[package]\nname = \"hello\"\n")
	writeFile(t, filepath.Join(root, "Cargo.lock"), "version = 3\n")
	writeFile(t, filepath.Join(root, "src", "main.rs"), "#![no_std]\n")

	toolchain := filepath.Join(t.TempDir(), "cargo")
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(toolchain, []byte("#!/bin/sh\n"+script), 0o700))

	return &fixture{
		root:      root,
		toolchain: toolchain,
		manifest: domain.PackageManifest{
			Name:            "hello",
			ManifestPath:    filepath.Join(root, "Cargo.toml"),
			DependencyFile:  filepath.Join(root, "Cargo.lock"),
			TargetDirectory: filepath.Join(root, "target"),
			WorkspaceRoot:   root,
		},
		project: &domain.Project{
			Root:      root,
			Toolchain: toolchain,
			BuildDir:  domain.DefaultBuildDir,
			Platforms: []domain.PlatformConfig{{Platform: domain.Basalt}},
		},
	}
}

func (f *fixture) configure(t *testing.T, opts crate.ConfigureOptions) []*crate.Node {
	t.Helper()
	ctrl := gomock.NewController(t)
	locator := mocks.NewMockManifestLocator(ctrl)
	locator.EXPECT().Locate(gomock.Any(), f.toolchain, f.root).Return(f.manifest, nil).Times(1)

	opts.Project = f.project
	executor := shell.NewExecutor(logger.NewWithWriter(io.Discard))
	nodes, err := crate.NewConfigurer(locator, fs.NewWalker(), executor).Configure(context.Background(), opts)
	require.NoError(t, err)
	return nodes
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
