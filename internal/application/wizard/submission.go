package wizard

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
)

// SubmissionService hands a finalized fact record to either the remote
// write path or the local one.
//
// Never partially applies: on the remote path the local snapshot is
// replaced only after the network call fully resolves; on the local path
// the aggregate is saved in one repository transaction. Retries are a
// host policy; this service performs exactly one attempt per call.
type SubmissionService struct {
	remote RemoteSubmitter
	tasks  task.TaskRepository
	clock  shared.Clock
}

// NewSubmissionService creates a submission service
func NewSubmissionService(remote RemoteSubmitter, tasks task.TaskRepository, clock shared.Clock) *SubmissionService {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SubmissionService{remote: remote, tasks: tasks, clock: clock}
}

// Submit persists or sends the record. The record must be finalized.
// Returns a SubmissionError whose message is preserved verbatim from the
// failing layer.
func (s *SubmissionService) Submit(ctx context.Context, t *task.Task, action *task.PlannedAction, record *task.FactRecord) error {
	if record == nil || !record.IsCompleted() {
		return shared.NewSubmissionError("fact record is not finalized")
	}

	if t.SyncRequired {
		return s.submitRemote(ctx, t, record)
	}
	return s.submitLocal(ctx, t, action, record)
}

func (s *SubmissionService) submitRemote(ctx context.Context, t *task.Task, record *task.FactRecord) error {
	if s.remote == nil {
		return shared.NewSubmissionError("no submission endpoint configured")
	}

	updated, err := s.remote.Submit(ctx, t.Endpoint, record)
	if err != nil {
		// The raw message travels to the wizard unmodified
		return shared.NewSubmissionError(err.Error())
	}

	if err := s.tasks.ReplaceSnapshot(ctx, updated); err != nil {
		return shared.NewSubmissionError(fmt.Sprintf("submission accepted but local snapshot update failed: %v", err))
	}
	return nil
}

func (s *SubmissionService) submitLocal(ctx context.Context, t *task.Task, action *task.PlannedAction, record *task.FactRecord) error {
	if err := action.RecordFact(record); err != nil {
		return shared.NewSubmissionError(err.Error())
	}
	if err := t.CompleteIfFinished(); err != nil {
		return shared.NewSubmissionError(err.Error())
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return shared.NewSubmissionError(err.Error())
	}
	return nil
}
