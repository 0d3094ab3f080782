package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/crate/internal/adapters/cargo"              //nolint:depguard // Wired in app layer
	"go.trai.ch/crate/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/crate/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/crate/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/crate/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/crate/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/crate/internal/engine/crate"
	"go.trai.ch/crate/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ConfigurerNodeID is the unique identifier for the node configurer Graft node.
	ConfigurerNodeID graft.ID = "engine.configurer"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	// Tracer is closed by the caller once the command has finished.
	Tracer ports.Tracer
}

func init() {
	graft.Register(graft.Node[*crate.Configurer]{
		ID:        ConfigurerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cargo.LocatorNodeID,
			fs.WalkerNodeID,
			shell.NodeID,
		},
		Run: func(ctx context.Context) (*crate.Configurer, error) {
			locator, err := graft.Dep[ports.ManifestLocator](ctx)
			if err != nil {
				return nil, err
			}

			sources, err := graft.Dep[ports.SourceFinder](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			return crate.NewConfigurer(locator, sources, executor), nil
		},
	})

	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			ConfigurerNodeID,
			scheduler.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			configurer, err := graft.Dep[*crate.Configurer](ctx)
			if err != nil {
				return nil, err
			}

			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, configurer, sched, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log, Tracer: tracer}, nil
		},
	})
}
