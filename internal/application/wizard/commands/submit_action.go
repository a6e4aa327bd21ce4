package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// SubmitActionCommand composes the fact record from the accumulated step
// results and books it, remotely or locally depending on the task
type SubmitActionCommand struct {
	ActionID string
}

// SubmitActionResponse carries the wizard state after the attempt:
// Completed on success, SubmitFailed with the server's message otherwise
type SubmitActionResponse struct {
	State wizard.State
}

// SubmitActionHandler handles the submit action command
type SubmitActionHandler struct {
	sessions *appwizard.Manager
}

// NewSubmitActionHandler creates a new submit action handler
func NewSubmitActionHandler(sessions *appwizard.Manager) *SubmitActionHandler {
	return &SubmitActionHandler{sessions: sessions}
}

// Handle executes the submit action command
func (h *SubmitActionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SubmitActionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	state := session.Submit(ctx)
	if state.Phase == wizard.PhaseCompleted {
		h.sessions.Close(cmd.ActionID)
	}
	return &SubmitActionResponse{State: state}, nil
}
