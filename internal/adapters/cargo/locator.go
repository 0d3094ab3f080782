package cargo

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestLocator = (*Locator)(nil)

// Locator implements ports.ManifestLocator on top of the toolchain's metadata.
type Locator struct {
	reader ports.MetadataReader
}

// NewLocator creates a new Locator.
func NewLocator(reader ports.MetadataReader) *Locator {
	return &Locator{reader: reader}
}

// Locate picks the manifest in projectRoot, or the workspace root manifest when projectRoot has
// none, and matches it against the workspace packages by path. Paths are compared after
// resolving symlinks, since the toolchain reports canonical paths; the returned manifest is
// the one the toolchain reported.
func (l *Locator) Locate(ctx context.Context, toolchain, projectRoot string) (domain.PackageManifest, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return domain.PackageManifest{}, zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", projectRoot)
	}

	md, err := l.reader.ReadMetadata(ctx, toolchain, root)
	if err != nil {
		return domain.PackageManifest{}, err
	}

	manifest := filepath.Join(root, domain.ManifestFileName)
	if !fileExists(manifest) {
		manifest = filepath.Join(md.WorkspaceRoot, domain.ManifestFileName)
	}

	pkg, ok := findPackage(md.Packages, manifest)
	if !ok {
		return domain.PackageManifest{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "no package owns the manifest"), "manifest", manifest)
	}
	manifest = filepath.Clean(pkg.ManifestPath)
	if !pkg.HasDefaultBinary() {
		err := zerr.With(zerr.Wrap(domain.ErrNoDefaultBinary, "cannot build package"), "package", pkg.Name)
		return domain.PackageManifest{}, zerr.With(err, "manifest", manifest)
	}

	depFile := filepath.Join(filepath.Dir(manifest), domain.LockfileName)
	if !fileExists(depFile) {
		depFile = manifest
	}

	return domain.PackageManifest{
		Name:            pkg.Name,
		ManifestPath:    manifest,
		DependencyFile:  depFile,
		TargetDirectory: md.TargetDirectory,
		WorkspaceRoot:   md.WorkspaceRoot,
	}, nil
}

func findPackage(packages []domain.MetadataPackage, manifest string) (domain.MetadataPackage, bool) {
	want := canonicalPath(manifest)
	for _, pkg := range packages {
		if canonicalPath(pkg.ManifestPath) == want {
			return pkg, true
		}
	}
	return domain.MetadataPackage{}, false
}

// canonicalPath resolves symlinks in path, falling back to the cleaned path when it does not exist.
func canonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
