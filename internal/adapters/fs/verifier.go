package fs

import (
	"os"

	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier provides functionality to verify the existence of files.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifyOutputs returns true if every output exists as a regular file.
func (v *Verifier) VerifyOutputs(outputs []string) (bool, error) {
	for _, path := range outputs {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", path)
		}
		if !info.Mode().IsRegular() {
			return false, nil
		}
	}
	return true, nil
}
