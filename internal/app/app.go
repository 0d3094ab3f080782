// Package app implements the application layer for crate.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/crate/internal/engine/crate"
	"go.trai.ch/crate/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	configurer   *crate.Configurer
	scheduler    *scheduler.Scheduler
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	configurer *crate.Configurer,
	sched *scheduler.Scheduler,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		configurer:   configurer,
		scheduler:    sched,
		logger:       log,
	}
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Platforms to build; empty builds every configured platform.
	Platforms []string
	Release   bool
	NoCache   bool
	// Parallelism caps concurrent nodes; zero means one per CPU.
	Parallelism int
}

// Build configures one node per platform and runs them.
func (a *App) Build(ctx context.Context, cwd string, opts BuildOptions) error {
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	nodes, err := a.configurer.Configure(ctx, crate.ConfigureOptions{
		Project:   project,
		Platforms: opts.Platforms,
		Release:   opts.Release,
	})
	if err != nil {
		return err
	}

	runnable := make([]scheduler.Node, len(nodes))
	for i, n := range nodes {
		runnable[i] = n
	}

	err = a.scheduler.Run(ctx, runnable, scheduler.Options{
		Root:        project.Root,
		Parallelism: opts.Parallelism,
		NoCache:     opts.NoCache,
	})
	if err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}

	for _, n := range nodes {
		a.logger.Info(fmt.Sprintf("%s -> %s (%s)", n.Name(), n.Output(), n.Status()))
	}
	return nil
}

// FlagsReport describes what a node would do, without running it.
type FlagsReport struct {
	Node     string
	Command  []string
	Flags    domain.FlagSet
	Inputs   []string
	Artifact string
	Output   string
	// MapFile is empty when no symbol map is emitted.
	MapFile string
}

// Flags returns the composed flags and declared inputs of one platform's node.
func (a *App) Flags(ctx context.Context, cwd, platform string, release bool) (*FlagsReport, error) {
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	nodes, err := a.configurer.Configure(ctx, crate.ConfigureOptions{
		Project:   project,
		Platforms: []string{platform},
		Release:   release,
	})
	if err != nil {
		return nil, err
	}

	n := nodes[0]
	task := n.Task()
	return &FlagsReport{
		Node:     n.Name(),
		Command:  task.Command,
		Flags:    n.Flags(),
		Inputs:   task.InputPaths(),
		Artifact: n.ArtifactPath(),
		Output:   n.Output(),
		MapFile:  n.MapFile(),
	}, nil
}
