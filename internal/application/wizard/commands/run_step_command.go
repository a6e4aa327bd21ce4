package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// RunStepCommandCommand executes a server-side command attached to the
// current step and applies the directive the server returns
type RunStepCommandCommand struct {
	ActionID   string
	CommandID  string
	Parameters map[string]string
}

// RunStepCommandResponse carries the wizard state plus what the server
// asked the host to do
type RunStepCommandResponse struct {
	State     wizard.State
	Directive appwizard.Directive
	Message   string
	Success   bool
}

// RunStepCommandHandler handles the run step command command
type RunStepCommandHandler struct {
	sessions *appwizard.Manager
}

// NewRunStepCommandHandler creates a new run step command handler
func NewRunStepCommandHandler(sessions *appwizard.Manager) *RunStepCommandHandler {
	return &RunStepCommandHandler{sessions: sessions}
}

// Handle executes the run step command command
func (h *RunStepCommandHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunStepCommandCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	result := session.RunCommand(ctx, cmd.CommandID, cmd.Parameters)
	return &RunStepCommandResponse{
		State:     result.State,
		Directive: result.Directive,
		Message:   result.Message,
		Success:   result.Success,
	}, nil
}
