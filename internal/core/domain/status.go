package domain

// TaskStatus is the lifecycle state of a node.
type TaskStatus string

const (
	// StatusPending indicates the node has not run yet.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the node is executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the node built and copied its artifact.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the node failed. It is terminal.
	StatusFailed TaskStatus = "Failed"
	// StatusCached indicates the host skipped the node because its inputs were unchanged.
	StatusCached TaskStatus = "Cached"
)

// IsTerminal reports whether s is a final state.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCached:
		return true
	default:
		return false
	}
}
