package wizard

import (
	"context"

	"github.com/warelog/handheld-go/internal/domain/task"
)

// RemoteSubmitter sends a composed fact record to the server selected by
// the task's endpoint and returns the server's updated task snapshot.
type RemoteSubmitter interface {
	// Submit posts the record. On success the returned task replaces the
	// local snapshot; on failure the error message is the raw server
	// message, preserved verbatim.
	Submit(ctx context.Context, endpoint string, record *task.FactRecord) (*task.Task, error)
}

// Directive tells the wizard what to do after a step command ran
type Directive string

const (
	DirectiveNone                Directive = "NONE"
	DirectiveRefreshStep         Directive = "REFRESH_STEP"
	DirectiveGoNext              Directive = "GO_NEXT"
	DirectiveGoPrevious          Directive = "GO_PREVIOUS"
	DirectiveCompleteAction      Directive = "COMPLETE_ACTION"
	DirectiveSetObjectFromResult Directive = "SET_OBJECT_FROM_RESULT"
	DirectiveShowDialog          Directive = "SHOW_DIALOG"
)

// Normalize maps unrecognized directives to NONE. The directive set is
// interpreted exhaustively; servers newer than the device degrade to a
// no-op instead of wedging the wizard.
func (d Directive) Normalize() Directive {
	switch d {
	case DirectiveNone, DirectiveRefreshStep, DirectiveGoNext, DirectiveGoPrevious,
		DirectiveCompleteAction, DirectiveSetObjectFromResult, DirectiveShowDialog:
		return d
	}
	return DirectiveNone
}

// CommandRequest asks the server to run a step-attached command
type CommandRequest struct {
	CommandID     string
	StepID        string
	CurrentRecord *task.FactRecord
	Parameters    map[string]string
	Context       map[string]string
}

// CommandResponse is the server's answer to a step command
type CommandResponse struct {
	Success    bool
	Message    string
	ResultData map[string]string
	NextAction Directive

	// UpdatedRecord optionally replaces the record being assembled
	UpdatedRecord *task.FactRecord
}

// CommandClient executes step-attached commands on the server
type CommandClient interface {
	Execute(ctx context.Context, endpoint string, req CommandRequest) (*CommandResponse, error)
}
