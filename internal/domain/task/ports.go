package task

import "context"

// TaskRepository defines task persistence operations.
// Following hexagonal architecture: repositories abstract both the local
// store and the server-synced snapshot behind one port.
type TaskRepository interface {
	// FindByID retrieves a task with its planned actions
	FindByID(ctx context.Context, taskID string) (*Task, error)

	// ListOpen retrieves tasks a worker can still work on
	ListOpen(ctx context.Context, workerID int) ([]*Task, error)

	// Save persists the task aggregate (task, actions, facts) atomically
	Save(ctx context.Context, t *Task) error

	// ReplaceSnapshot swaps the locally stored task for the server-returned
	// state in one transaction. Used after a successful remote submission;
	// a failed replace must leave the previous snapshot intact.
	ReplaceSnapshot(ctx context.Context, t *Task) error
}
