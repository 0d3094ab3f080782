package ports

// SourceFinder enumerates the source files a package build reads.
//
//go:generate mockgen -source=sources.go -destination=mocks/mock_sources.go -package=mocks
type SourceFinder interface {
	// FindSources returns the sorted absolute paths of every file under root with the given
	// extension, skipping the excluded directories.
	FindSources(root, ext string, exclude []string) ([]string, error)
}
