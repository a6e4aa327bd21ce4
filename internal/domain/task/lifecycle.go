package task

import (
	"fmt"
	"time"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// Status represents the state of a task or planned action in its lifecycle
type Status string

const (
	// StatusPlanned indicates the work is planned but not picked up yet
	StatusPlanned Status = "PLANNED"

	// StatusInProgress indicates a worker is collecting facts against it
	StatusInProgress Status = "IN_PROGRESS"

	// StatusCompleted indicates the fact record was recorded
	StatusCompleted Status = "COMPLETED"

	// StatusCancelled indicates the work was abandoned
	StatusCancelled Status = "CANCELLED"
)

// Lifecycle manages the PLANNED → IN_PROGRESS → COMPLETED/CANCELLED
// transitions shared by tasks and planned actions.
//
// Invariants:
// - State transitions must follow valid paths
// - Timestamps are automatically managed
// - Clock is injected for testability
type Lifecycle struct {
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
	startedAt   *time.Time
	finishedAt  *time.Time
	cancelCause string
	clock       shared.Clock
}

// NewLifecycle creates a lifecycle in PLANNED state
func NewLifecycle(clock shared.Clock) *Lifecycle {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	now := clock.Now()
	return &Lifecycle{
		status:    StatusPlanned,
		createdAt: now,
		updatedAt: now,
		clock:     clock,
	}
}

// Status returns the current lifecycle status
func (l *Lifecycle) Status() Status {
	return l.status
}

// CreatedAt returns when the entity was created
func (l *Lifecycle) CreatedAt() time.Time {
	return l.createdAt
}

// UpdatedAt returns when the entity was last updated
func (l *Lifecycle) UpdatedAt() time.Time {
	return l.updatedAt
}

// StartedAt returns when work started (nil if not started)
func (l *Lifecycle) StartedAt() *time.Time {
	return l.startedAt
}

// FinishedAt returns when work finished (nil if still open)
func (l *Lifecycle) FinishedAt() *time.Time {
	return l.finishedAt
}

// CancelCause returns why the work was cancelled (empty if not cancelled)
func (l *Lifecycle) CancelCause() string {
	return l.cancelCause
}

// Start transitions from PLANNED to IN_PROGRESS
func (l *Lifecycle) Start() error {
	if l.status != StatusPlanned {
		return fmt.Errorf("cannot start from %s state", l.status)
	}

	now := l.clock.Now()
	l.status = StatusInProgress
	l.startedAt = &now
	l.updatedAt = now
	return nil
}

// Complete transitions from IN_PROGRESS to COMPLETED
func (l *Lifecycle) Complete() error {
	if l.status != StatusInProgress {
		return fmt.Errorf("cannot complete from %s state", l.status)
	}

	now := l.clock.Now()
	l.status = StatusCompleted
	l.finishedAt = &now
	l.updatedAt = now
	return nil
}

// Cancel transitions to CANCELLED from any non-terminal state
func (l *Lifecycle) Cancel(cause string) error {
	if l.status == StatusCompleted || l.status == StatusCancelled {
		return fmt.Errorf("cannot cancel from %s state", l.status)
	}

	now := l.clock.Now()
	l.status = StatusCancelled
	l.cancelCause = cause
	l.finishedAt = &now
	l.updatedAt = now
	return nil
}

// IsOpen returns true while the work can still accept facts
func (l *Lifecycle) IsOpen() bool {
	return l.status == StatusPlanned || l.status == StatusInProgress
}

// IsFinished returns true once the work completed or was cancelled
func (l *Lifecycle) IsFinished() bool {
	return l.status == StatusCompleted || l.status == StatusCancelled
}

// RecoverFromPersistence restores the complete lifecycle state from persisted data
// This should only be used when reconstructing entities from storage
func (l *Lifecycle) RecoverFromPersistence(
	status Status,
	createdAt, updatedAt time.Time,
	startedAt, finishedAt *time.Time,
	cancelCause string,
) {
	l.status = status
	l.createdAt = createdAt
	l.updatedAt = updatedAt
	l.startedAt = startedAt
	l.finishedAt = finishedAt
	l.cancelCause = cancelCause
}
