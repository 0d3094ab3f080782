package crate

import (
	"context"
	"path/filepath"
	"slices"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
)

// SourceExt is the extension of the package's source files.
const SourceExt = ".rs"

// ConfigureOptions select the nodes to create.
type ConfigureOptions struct {
	Project *domain.Project
	// Platforms to build; empty means every platform in the project.
	Platforms []string
	// Release forces the release profile. The project's own selector also enables it.
	Release bool
}

// Configurer turns a project into build nodes.
type Configurer struct {
	locator  ports.ManifestLocator
	sources  ports.SourceFinder
	executor ports.Executor
}

// NewConfigurer creates a new Configurer.
func NewConfigurer(locator ports.ManifestLocator, sources ports.SourceFinder, executor ports.Executor) *Configurer {
	return &Configurer{
		locator:  locator,
		sources:  sources,
		executor: executor,
	}
}

// Configure resolves every requested platform, locates the package once and returns one node per
// platform, in the order the platforms were requested. Nothing runs and nothing is written.
func (c *Configurer) Configure(ctx context.Context, opts ConfigureOptions) ([]*Node, error) {
	project := opts.Project

	names := opts.Platforms
	if len(names) == 0 {
		for _, pc := range project.Platforms {
			names = append(names, pc.Platform.String())
		}
	}
	if len(names) == 0 {
		return nil, zerr.Wrap(domain.ErrNoPlatforms, "nothing to configure")
	}

	type resolved struct {
		platform domain.Platform
		target   domain.Target
	}
	var platforms []resolved
	for _, name := range names {
		p, target, err := domain.ResolvePlatform(name)
		if err != nil {
			return nil, err
		}
		if slices.ContainsFunc(platforms, func(r resolved) bool { return r.platform == p }) {
			continue
		}
		platforms = append(platforms, resolved{platform: p, target: target})
	}

	manifest, err := c.locator.Locate(ctx, project.Toolchain, project.Root)
	if err != nil {
		return nil, err
	}

	buildDir := filepath.Join(project.Root, project.BuildDir)
	sources, err := c.sources.FindSources(manifest.Root(), SourceExt, []string{manifest.TargetDirectory, buildDir})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceDiscoveryFailed, err.Error()), "root", manifest.Root())
	}

	profile := domain.ProfileFor(project.Release || opts.Release)
	outputName := project.Output
	if outputName == "" {
		outputName = manifest.Name + ".elf"
	}

	nodes := make([]*Node, 0, len(platforms))
	for _, r := range platforms {
		pc, _ := project.PlatformConfig(r.platform)
		outDir := filepath.Join(buildDir, r.platform.String())

		var mapFile string
		if project.MapFile {
			mapFile = filepath.Join(outDir, manifest.Name+".map")
		}

		flags := domain.ComposeFlags(domain.FlagOptions{
			Profile:      profile,
			Platform:     r.platform,
			Target:       r.target,
			LinkerScript: project.LinkerScript,
			MapFile:      mapFile,
			Objects:      pc.Objects,
		})

		nodes = append(nodes, &Node{
			task: domain.Task{
				Name:        domain.NewInternedString(r.platform.String() + "/" + manifest.Name),
				Command:     BuildCommand(project.Toolchain, manifest.Name, r.target, profile),
				Environment: map[string]string{domain.FlagsEnvVar: flags.String()},
				WorkingDir:  domain.NewInternedString(manifest.Root()),
				Inputs: domain.DeclareInputs(
					[]string{manifest.ManifestPath, manifest.DependencyFile},
					sources,
					[]string{project.LinkerScript},
					pc.Objects,
				),
				Output: domain.NewInternedString(filepath.Join(outDir, outputName)),
			},
			platform: r.platform,
			target:   r.target,
			profile:  profile,
			manifest: manifest,
			flags:    flags,
			mapFile:  mapFile,
			executor: c.executor,
			status:   domain.StatusPending,
		})
	}

	return nodes, nil
}

// BuildCommand returns the argv of the external build.
func BuildCommand(toolchain, pkg string, target domain.Target, profile domain.Profile) []string {
	cmd := []string{toolchain, "build", "--package", pkg, "--target", target.Triple}
	if profile.IsRelease() {
		cmd = append(cmd, "--release")
	}
	return cmd
}
