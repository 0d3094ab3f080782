// Package fs provides file system adapters for walking and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceFinder = (*Walker)(nil)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file under root, skipping VCS metadata and directories
// whose base name matches one of ignores. Yielded paths are prefixed with root.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return w.walk(root, ignores, nil)
}

// walk is WalkFiles that also prunes the directories whose path is in prune.
func (w *Walker) walk(root string, ignores, prune []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root {
				if d.IsDir() && slices.Contains(prune, path) {
					return filepath.SkipDir
				}
				if skipAction := w.shouldSkipDir(d, ignores); skipAction != nil {
					return skipAction
				}
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// FindSources returns the sorted absolute paths of the files under root ending in ext.
// Entries of exclude are either directory base names or absolute directory paths; absolute
// entries are matched whether they are spelled through a symlink or not.
func (w *Walker) FindSources(root, ext string, exclude []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve source root"), "root", root)
	}

	var names, dirs []string
	for _, e := range exclude {
		if filepath.IsAbs(e) {
			dirs = append(dirs, excludeForms(absRoot, e)...)
		} else {
			names = append(names, e)
		}
	}

	var sources []string
	for path := range w.walk(absRoot, names, dirs) {
		if strings.HasSuffix(path, ext) {
			sources = append(sources, path)
		}
	}
	slices.Sort(sources)
	return sources, nil
}

// excludeForms returns dir as given and, when it lies under root once symlinks are resolved,
// the same directory spelled under root.
func excludeForms(root, dir string) []string {
	forms := []string{filepath.Clean(dir)}
	rel, err := filepath.Rel(canonicalPath(root), canonicalPath(dir))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return forms
	}
	return append(forms, filepath.Join(root, rel))
}

// canonicalPath resolves symlinks in the longest existing prefix of path.
func canonicalPath(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(canonicalPath(parent), filepath.Base(path))
}

// shouldSkipDir returns filepath.SkipDir for directories that must not be descended into.
func (w *Walker) shouldSkipDir(d fs.DirEntry, ignores []string) error {
	if !d.IsDir() {
		return nil
	}

	name := d.Name()
	if name == ".git" || name == ".jj" {
		return filepath.SkipDir
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return filepath.SkipDir
		}
	}

	return nil
}
