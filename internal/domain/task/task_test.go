package task_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
)

func newReceiptTask(t *testing.T, clock shared.Clock) *task.Task {
	t.Helper()
	tk, err := task.NewTask("task-1", task.TypeReceipt, shared.MustNewWorkerID(7), clock)
	require.NoError(t, err)
	return tk
}

func completedFact(t *testing.T, clock shared.Clock) *task.FactRecord {
	t.Helper()
	fact := task.NewFactRecord("task-1", "action-1", clock)
	require.True(t, fact.Complete(clock))
	return fact
}

func TestTask_NewRejectsInvalidData(t *testing.T) {
	clock := shared.NewMockClock(time.Now())

	_, err := task.NewTask("", task.TypeReceipt, shared.MustNewWorkerID(7), clock)
	assert.Error(t, err)

	_, err = task.NewTask("task-1", task.Type("INVENTORY"), shared.MustNewWorkerID(7), clock)
	assert.Error(t, err)
}

func TestTask_LifecycleTransitions(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	tk := newReceiptTask(t, clock)
	require.Equal(t, task.StatusPlanned, tk.Status())

	// Act
	require.NoError(t, tk.Start())
	clock.Advance(5 * time.Minute)

	// Assert
	assert.Equal(t, task.StatusInProgress, tk.Status())
	require.NotNil(t, tk.Lifecycle().StartedAt())
	assert.True(t, tk.Lifecycle().IsOpen())

	// A started task cannot start again
	assert.Error(t, tk.Start())
}

func TestTask_CancelRecordsCause(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	tk := newReceiptTask(t, clock)

	require.NoError(t, tk.Cancel("wrong dock assignment"))

	assert.Equal(t, task.StatusCancelled, tk.Status())
	assert.Equal(t, "wrong dock assignment", tk.Lifecycle().CancelCause())
	assert.False(t, tk.Lifecycle().IsOpen())
}

func TestPlannedAction_RecordFactClosesAction(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Now())
	action, err := task.NewPlannedAction("action-1", "task-1", "receipt-basic", task.PlannedReference{}, clock)
	require.NoError(t, err)

	// Act - facts may arrive for actions never explicitly started
	err = action.RecordFact(completedFact(t, clock))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, action.Status())
	assert.False(t, action.IsOpen())
	assert.NotNil(t, action.Fact)
}

func TestPlannedAction_RejectsPartialFact(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	action, err := task.NewPlannedAction("action-1", "task-1", "receipt-basic", task.PlannedReference{}, clock)
	require.NoError(t, err)

	// Never completed
	fact := task.NewFactRecord("task-1", "action-1", clock)

	assert.Error(t, action.RecordFact(fact))
	assert.Equal(t, task.StatusPlanned, action.Status())
}

func TestTask_CompleteIfFinished(t *testing.T) {
	// Arrange - two actions, one recorded
	clock := shared.NewMockClock(time.Now())
	tk := newReceiptTask(t, clock)

	first, err := task.NewPlannedAction("action-1", tk.ID, "receipt-basic", task.PlannedReference{}, clock)
	require.NoError(t, err)
	second, err := task.NewPlannedAction("action-2", tk.ID, "receipt-basic", task.PlannedReference{}, clock)
	require.NoError(t, err)
	require.NoError(t, tk.AddAction(first))
	require.NoError(t, tk.AddAction(second))
	require.NoError(t, tk.Start())

	require.NoError(t, first.RecordFact(completedFact(t, clock)))

	// Act - one action still open, nothing happens
	require.NoError(t, tk.CompleteIfFinished())
	assert.Equal(t, task.StatusInProgress, tk.Status())

	// Act - the last action closes the task
	require.NoError(t, second.RecordFact(completedFact(t, clock)))
	require.NoError(t, tk.CompleteIfFinished())

	// Assert
	assert.Equal(t, task.StatusCompleted, tk.Status())
	assert.True(t, tk.AllActionsFinished())
}

func TestTask_FindAction(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	tk := newReceiptTask(t, clock)
	action, err := task.NewPlannedAction("action-1", tk.ID, "receipt-basic", task.PlannedReference{}, clock)
	require.NoError(t, err)
	require.NoError(t, tk.AddAction(action))

	found, err := tk.FindAction("action-1")
	require.NoError(t, err)
	assert.Equal(t, "action-1", found.ID)

	_, err = tk.FindAction("missing")
	assert.Error(t, err)
	assert.IsType(t, &task.ActionNotFoundError{}, err)
}

func TestFactRecord_CompleteIsIdempotent(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	fact := task.NewFactRecord("task-1", "action-1", clock)

	assert.True(t, fact.Complete(clock))
	assert.False(t, fact.Complete(clock), "second completion is a no-op")
	assert.True(t, fact.IsCompleted())
}

func TestFactRecord_CloneIsIndependent(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	fact := task.NewFactRecord("task-1", "action-1", clock)
	fact.ProductStatus = "DAMAGED"

	clone := fact.Clone()
	clone.ProductStatus = "OK"

	assert.Equal(t, "DAMAGED", fact.ProductStatus)
	assert.Equal(t, fact.ID, clone.ID)
}
