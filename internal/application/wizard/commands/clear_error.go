package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// ClearErrorCommand acknowledges the current step error
type ClearErrorCommand struct {
	ActionID string
}

// ClearErrorResponse carries the wizard state after the error was cleared
type ClearErrorResponse struct {
	State wizard.State
}

// ClearErrorHandler handles the clear error command
type ClearErrorHandler struct {
	sessions *appwizard.Manager
}

// NewClearErrorHandler creates a new clear error handler
func NewClearErrorHandler(sessions *appwizard.Manager) *ClearErrorHandler {
	return &ClearErrorHandler{sessions: sessions}
}

// Handle executes the clear error command
func (h *ClearErrorHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ClearErrorCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	return &ClearErrorResponse{State: session.ClearError(ctx)}, nil
}
