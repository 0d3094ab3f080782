package fs

import (
	"path/filepath"
	"slices"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using filepath.Glob.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs turns patterns into absolute paths under root.
// Plain paths are passed through whether or not they exist yet. A glob must match at least
// one file; its matches are sorted and spliced in at the pattern's position.
// A path produced twice keeps its first position.
func (r *Resolver) ResolveInputs(patterns []string, root string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, pattern := range patterns {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		path = filepath.Clean(path)

		if !hasMeta(path) {
			add(path)
			continue
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInputNotFound, "pattern matched nothing"), "path", path)
		}

		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return result, nil
}

func hasMeta(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[', '\\':
			return true
		}
	}
	return false
}
