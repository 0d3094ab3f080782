// Package cargo adapts the external package toolchain: metadata queries and manifest location.
package cargo

import (
	"bytes"
	"context"
	"encoding/json"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataReader = (*MetadataReader)(nil)

// MetadataReader runs "<toolchain> metadata" through an executor.
type MetadataReader struct {
	executor ports.Executor
}

// NewMetadataReader creates a new MetadataReader.
func NewMetadataReader(executor ports.Executor) *MetadataReader {
	return &MetadataReader{executor: executor}
}

// MetadataCommand returns the argv of the metadata query.
func MetadataCommand(toolchain string) []string {
	return []string{toolchain, "metadata", "--no-deps", "--format-version", "1"}
}

// ReadMetadata implements ports.MetadataReader.
func (r *MetadataReader) ReadMetadata(ctx context.Context, toolchain, dir string) (*domain.Metadata, error) {
	task := &domain.Task{
		Name:       domain.NewInternedString("metadata"),
		Command:    MetadataCommand(toolchain),
		WorkingDir: domain.NewInternedString(dir),

		// The JSON document is parsed, not logged.
		CaptureStdout: true,
	}

	var stdout, stderr bytes.Buffer
	if execErr := r.executor.Execute(ctx, task, nil, &stdout, &stderr); execErr != nil {
		err := zerr.With(zerr.Wrap(domain.ErrMetadataFailed, execErr.Error()), "dir", dir)
		if code, ok := domain.ExitCode(execErr); ok {
			err = zerr.With(err, "exit_code", code)
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			err = zerr.With(err, "stderr", string(msg))
		}
		return nil, err
	}

	var md domain.Metadata
	if err := json.Unmarshal(stdout.Bytes(), &md); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrMetadataFailed, "unreadable metadata: "+err.Error()), "dir", dir)
	}
	return &md, nil
}
