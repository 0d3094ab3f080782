package domain

import "path/filepath"

const (
	// ManifestFileName is the package manifest file name.
	ManifestFileName = "Cargo.toml"
	// LockfileName is the dependency lockfile name.
	LockfileName = "Cargo.lock"
	// BinaryTargetKind is the target kind of an executable target in package metadata.
	BinaryTargetKind = "bin"
)

// Metadata is the document returned by the toolchain's metadata command.
type Metadata struct {
	TargetDirectory string            `json:"target_directory"`
	WorkspaceRoot   string            `json:"workspace_root"`
	Packages        []MetadataPackage `json:"packages"`
}

// MetadataPackage describes one workspace member.
type MetadataPackage struct {
	Name         string           `json:"name"`
	ManifestPath string           `json:"manifest_path"`
	Targets      []MetadataTarget `json:"targets"`
}

// MetadataTarget describes one build target of a package.
type MetadataTarget struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// HasDefaultBinary reports whether the package has an executable target named after itself.
func (p MetadataPackage) HasDefaultBinary() bool {
	for _, t := range p.Targets {
		if t.Name != p.Name {
			continue
		}
		for _, k := range t.Kind {
			if k == BinaryTargetKind {
				return true
			}
		}
	}
	return false
}

// PackageManifest is the resolved package a node builds.
type PackageManifest struct {
	// Name is the package name passed to the build command.
	Name string
	// ManifestPath is the absolute path of the package manifest.
	ManifestPath string
	// DependencyFile is the lockfile next to the manifest, or the manifest when there is none.
	DependencyFile string
	// TargetDirectory is the toolchain's output root.
	TargetDirectory string
	// WorkspaceRoot is the root of the enclosing workspace.
	WorkspaceRoot string
}

// Root returns the package root directory, the directory holding the manifest.
func (m PackageManifest) Root() string {
	return filepath.Dir(m.ManifestPath)
}

// ArtifactPath returns where the toolchain writes the binary for the given target and profile:
// {target_dir}/{triple}/{profile}/{package}.
func (m PackageManifest) ArtifactPath(target Target, profile Profile) string {
	return filepath.Join(m.TargetDirectory, target.Triple, profile.String(), m.Name)
}
