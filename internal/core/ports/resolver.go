package ports

// InputResolver expands path patterns into concrete file paths.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs resolves patterns relative to root, keeping the order they were given in.
	ResolveInputs(patterns []string, root string) ([]string, error)
}
