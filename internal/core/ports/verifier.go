package ports

// Verifier defines the interface for verifying file existence.
//
//go:generate mockgen -destination=mocks/mock_verifier.go -package=mocks -source=verifier.go
type Verifier interface {
	// VerifyOutputs reports whether every output file exists.
	VerifyOutputs(outputs []string) (bool, error)
}
