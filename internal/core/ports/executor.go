// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/crate/internal/core/domain"
)

// Executor defines the interface for running a task's command.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs task.Command in task.WorkingDir.
	//
	// The env parameter contains extra environment variables in "KEY=VALUE" format.
	// They, and task.Environment, are merged over the inherited process environment.
	//
	// A non-zero exit is returned as an error carrying an "exit_code" metadata entry.
	Execute(ctx context.Context, task *domain.Task, env []string, stdout, stderr io.Writer) error
}
