package ports

import (
	"context"

	"go.trai.ch/crate/internal/core/domain"
)

// MetadataReader queries the toolchain for workspace metadata.
//
//go:generate mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks
type MetadataReader interface {
	// ReadMetadata runs the toolchain's metadata command in dir and decodes its output.
	ReadMetadata(ctx context.Context, toolchain, dir string) (*domain.Metadata, error)
}
