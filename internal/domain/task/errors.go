package task

import "fmt"

// Domain errors for task and planned-action operations

// InvalidTaskDataError indicates malformed task or action data
type InvalidTaskDataError struct {
	Message string
}

func (e *InvalidTaskDataError) Error() string {
	return e.Message
}

func NewInvalidTaskDataError(message string) *InvalidTaskDataError {
	return &InvalidTaskDataError{Message: message}
}

// TaskNotFoundError indicates the task does not exist in the local store
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.TaskID)
}

func NewTaskNotFoundError(taskID string) *TaskNotFoundError {
	return &TaskNotFoundError{TaskID: taskID}
}

// ActionNotFoundError indicates the planned action does not exist on the task
type ActionNotFoundError struct {
	TaskID   string
	ActionID string
}

func (e *ActionNotFoundError) Error() string {
	return fmt.Sprintf("action %s not found on task %s", e.ActionID, e.TaskID)
}

func NewActionNotFoundError(taskID, actionID string) *ActionNotFoundError {
	return &ActionNotFoundError{TaskID: taskID, ActionID: actionID}
}
