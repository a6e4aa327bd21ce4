package task

import (
	"github.com/warelog/handheld-go/internal/domain/shared"
)

// Type is the kind of warehouse operation a task represents
type Type string

const (
	TypeReceipt  Type = "RECEIPT"
	TypePutaway  Type = "PUTAWAY"
	TypePicking  Type = "PICKING"
	TypeMovement Type = "MOVEMENT"
	TypeRecount  Type = "RECOUNT"
)

// Task is the aggregate root for a unit of planned warehouse work.
//
// A task owns its planned actions and their fact records. The wizard never
// mutates a task directly; completed facts are applied through RecordFact
// on the action or replaced wholesale by a server snapshot.
type Task struct {
	ID       string
	Type     Type
	WorkerID shared.WorkerID

	// SyncRequired selects the remote submission path; facts on such
	// tasks are booked by the server, not locally.
	SyncRequired bool

	// Endpoint selects which server receives submissions for this task
	Endpoint string

	// ForbidOverPlan turns quantity-over-plan from a flag into a hard
	// validation failure.
	ForbidOverPlan bool

	Actions   []*PlannedAction
	lifecycle *Lifecycle
}

// NewTask creates a task in PLANNED state
func NewTask(id string, taskType Type, workerID shared.WorkerID, clock shared.Clock) (*Task, error) {
	if id == "" {
		return nil, NewInvalidTaskDataError("task id cannot be empty")
	}
	switch taskType {
	case TypeReceipt, TypePutaway, TypePicking, TypeMovement, TypeRecount:
	default:
		return nil, NewInvalidTaskDataError("unknown task type: " + string(taskType))
	}

	return &Task{
		ID:        id,
		Type:      taskType,
		WorkerID:  workerID,
		lifecycle: NewLifecycle(clock),
	}, nil
}

// Status returns the task's lifecycle status
func (t *Task) Status() Status {
	return t.lifecycle.Status()
}

// Start marks the task as being worked on
func (t *Task) Start() error {
	return t.lifecycle.Start()
}

// Cancel abandons the task with a cause
func (t *Task) Cancel(cause string) error {
	return t.lifecycle.Cancel(cause)
}

// AddAction appends a planned action to the task
func (t *Task) AddAction(action *PlannedAction) error {
	if action == nil {
		return NewInvalidTaskDataError("action cannot be nil")
	}
	if action.TaskID != t.ID {
		return NewInvalidTaskDataError("action belongs to another task")
	}
	for _, existing := range t.Actions {
		if existing.ID == action.ID {
			return NewInvalidTaskDataError("duplicate action id: " + action.ID)
		}
	}
	t.Actions = append(t.Actions, action)
	return nil
}

// FindAction returns the planned action with the given id
func (t *Task) FindAction(actionID string) (*PlannedAction, error) {
	for _, action := range t.Actions {
		if action.ID == actionID {
			return action, nil
		}
	}
	return nil, NewActionNotFoundError(t.ID, actionID)
}

// OpenActions returns actions still accepting facts
func (t *Task) OpenActions() []*PlannedAction {
	var open []*PlannedAction
	for _, action := range t.Actions {
		if action.IsOpen() {
			open = append(open, action)
		}
	}
	return open
}

// AllActionsFinished returns true when no action is still open
func (t *Task) AllActionsFinished() bool {
	return len(t.OpenActions()) == 0
}

// CompleteIfFinished closes the task once every action has finished
func (t *Task) CompleteIfFinished() error {
	if !t.AllActionsFinished() {
		return nil
	}
	if t.lifecycle.Status() != StatusInProgress {
		return nil
	}
	return t.lifecycle.Complete()
}

// Lifecycle exposes the underlying lifecycle for persistence reconstruction
func (t *Task) Lifecycle() *Lifecycle {
	return t.lifecycle
}
