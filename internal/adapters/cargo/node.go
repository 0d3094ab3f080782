package cargo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/crate/internal/adapters/shell"
	"go.trai.ch/crate/internal/core/ports"
)

const (
	// MetadataNodeID is the unique identifier for the metadata reader Graft node.
	MetadataNodeID graft.ID = "adapter.cargo.metadata"
	// LocatorNodeID is the unique identifier for the manifest locator Graft node.
	LocatorNodeID graft.ID = "adapter.cargo.locator"
)

func init() {
	graft.Register(graft.Node[ports.MetadataReader]{
		ID:        MetadataNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.MetadataReader, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewMetadataReader(executor), nil
		},
	})

	graft.Register(graft.Node[ports.ManifestLocator]{
		ID:        LocatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{MetadataNodeID},
		Run: func(ctx context.Context) (ports.ManifestLocator, error) {
			reader, err := graft.Dep[ports.MetadataReader](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocator(reader), nil
		},
	})
}
