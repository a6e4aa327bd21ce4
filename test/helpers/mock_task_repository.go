package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/warelog/handheld-go/internal/domain/task"
)

// MockTaskRepository is a test double for the TaskRepository interface
type MockTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*task.Task

	// Error injection
	shouldError bool
	errorMsg    string

	// Call tracking
	SaveCount            int
	ReplaceSnapshotCount int
}

// NewMockTaskRepository creates a new mock task repository
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks: make(map[string]*task.Task),
	}
}

// AddTask adds a task to the repository
func (r *MockTaskRepository) AddTask(t *task.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
}

// SetError makes every subsequent call fail with the given message
func (r *MockTaskRepository) SetError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shouldError = true
	r.errorMsg = msg
}

// FindByID finds a task by ID
func (r *MockTaskRepository) FindByID(ctx context.Context, taskID string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.shouldError {
		return nil, fmt.Errorf("%s", r.errorMsg)
	}

	t, ok := r.tasks[taskID]
	if !ok {
		return nil, task.NewTaskNotFoundError(taskID)
	}
	return t, nil
}

// ListOpen lists open tasks for a worker
func (r *MockTaskRepository) ListOpen(ctx context.Context, workerID int) ([]*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.shouldError {
		return nil, fmt.Errorf("%s", r.errorMsg)
	}

	var open []*task.Task
	for _, t := range r.tasks {
		if t.WorkerID.Value() == workerID && t.Lifecycle().IsOpen() {
			open = append(open, t)
		}
	}
	return open, nil
}

// Save persists the task aggregate
func (r *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shouldError {
		return fmt.Errorf("%s", r.errorMsg)
	}

	r.SaveCount++
	r.tasks[t.ID] = t
	return nil
}

// ReplaceSnapshot swaps the stored task for the given snapshot
func (r *MockTaskRepository) ReplaceSnapshot(ctx context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shouldError {
		return fmt.Errorf("%s", r.errorMsg)
	}

	r.ReplaceSnapshotCount++
	r.tasks[t.ID] = t
	return nil
}
