// Package config provides the configuration loader for crate.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

const supportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	Resolver ports.InputResolver
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, resolver ports.InputResolver) *Loader {
	return &Loader{Logger: logger, Resolver: resolver}
}

// Load finds crate.yaml in cwd or the nearest parent directory and returns the project it describes.
// The directory holding the file becomes the project root.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var cratefile Cratefile
	if err := readAndUnmarshalYAML(configPath, &cratefile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	project, err := l.toProject(filepath.Dir(configPath), &cratefile)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	l.Logger.Debug(fmt.Sprintf("loaded %s from %s", domain.ConfigFileName, project.Root))
	return project, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "cwd", cwd)
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no configuration in any parent"), "cwd", cwd)
}

func (l *Loader) toProject(root string, cf *Cratefile) (*domain.Project, error) {
	if cf.Version != "" && cf.Version != supportedVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unsupported version"), "version", cf.Version)
	}
	if len(cf.Platforms) == 0 {
		return nil, zerr.Wrap(domain.ErrNoPlatforms, "crate.yaml lists no platforms")
	}
	if cf.Output != "" && (filepath.Base(cf.Output) != cf.Output || cf.Output == "." || cf.Output == "..") {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "output must be a file name"), "output", cf.Output)
	}

	project := &domain.Project{
		Root:      root,
		Toolchain: withDefault(strings.TrimSpace(cf.Toolchain), domain.DefaultToolchain),
		Release:   cf.Release,
		BuildDir:  withDefault(cf.BuildDir, domain.DefaultBuildDir),
		MapFile:   cf.MapFile,
		Output:    cf.Output,
	}
	if cf.LdScript != "" {
		project.LinkerScript = absUnder(root, cf.LdScript)
	}

	names := make([]string, 0, len(cf.Platforms))
	for name := range cf.Platforms {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		platform, _, err := domain.ResolvePlatform(name)
		if err != nil {
			return nil, err
		}

		objects, err := l.Resolver.ResolveInputs(cf.Platforms[name].Objects, root)
		if err != nil {
			return nil, zerr.With(err, "platform", name)
		}

		project.Platforms = append(project.Platforms, domain.PlatformConfig{
			Platform: platform,
			Objects:  objects,
		})
	}

	return project, nil
}

func absUnder(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// readAndUnmarshalYAML reads a YAML file and decodes it into target, rejecting unknown keys.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from cwd
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(domain.ErrConfigReadFailed, err.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(domain.ErrConfigParseFailed, err.Error())
	}

	return nil
}
