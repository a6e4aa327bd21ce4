package queries

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	"github.com/warelog/handheld-go/internal/domain/task"
)

// ListOpenTasksQuery retrieves the tasks a worker can still work on
type ListOpenTasksQuery struct {
	WorkerID int
}

// ListOpenTasksResponse contains open tasks with their planned actions
type ListOpenTasksResponse struct {
	Tasks []*task.Task
}

// ListOpenTasksHandler handles open task listing
type ListOpenTasksHandler struct {
	tasks task.TaskRepository
}

// NewListOpenTasksHandler creates a new list open tasks query handler
func NewListOpenTasksHandler(tasks task.TaskRepository) *ListOpenTasksHandler {
	return &ListOpenTasksHandler{tasks: tasks}
}

// Handle executes the list open tasks query
func (h *ListOpenTasksHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListOpenTasksQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	open, err := h.tasks.ListOpen(ctx, query.WorkerID)
	if err != nil {
		return nil, err
	}

	return &ListOpenTasksResponse{Tasks: open}, nil
}

// GetTaskQuery retrieves one task with its planned actions
type GetTaskQuery struct {
	TaskID string
}

// GetTaskResponse contains the task aggregate
type GetTaskResponse struct {
	Task *task.Task
}

// GetTaskHandler handles single task queries
type GetTaskHandler struct {
	tasks task.TaskRepository
}

// NewGetTaskHandler creates a new get task query handler
func NewGetTaskHandler(tasks task.TaskRepository) *GetTaskHandler {
	return &GetTaskHandler{tasks: tasks}
}

// Handle executes the get task query
func (h *GetTaskHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetTaskQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	t, err := h.tasks.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}

	return &GetTaskResponse{Task: t}, nil
}
