package ports

import "go.trai.ch/crate/internal/core/domain"

// Hasher defines the interface for computing hashes.
//
//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeInputHash computes one hash over the task declaration and the content of every input.
	ComputeInputHash(task *domain.Task) (string, error)

	// ComputeFileHash computes the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)
}
