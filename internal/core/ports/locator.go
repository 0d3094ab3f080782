package ports

import (
	"context"

	"go.trai.ch/crate/internal/core/domain"
)

// ManifestLocator resolves which package a project builds.
//
//go:generate mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type ManifestLocator interface {
	// Locate returns the package built from projectRoot and the files the graph must track.
	// The toolchain is queried for metadata exactly once.
	Locate(ctx context.Context, toolchain, projectRoot string) (domain.PackageManifest, error)
}
