package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// EnterValueCommand feeds manually typed input into the current step.
// Unlike scans, typed input bypasses debounce and memoization.
type EnterValueCommand struct {
	ActionID string
	Input    string
}

// EnterValueResponse carries the wizard state after validation
type EnterValueResponse struct {
	State wizard.State
}

// EnterValueHandler handles the enter value command
type EnterValueHandler struct {
	sessions *appwizard.Manager
}

// NewEnterValueHandler creates a new enter value handler
func NewEnterValueHandler(sessions *appwizard.Manager) *EnterValueHandler {
	return &EnterValueHandler{sessions: sessions}
}

// Handle executes the enter value command
func (h *EnterValueHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*EnterValueCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	return &EnterValueResponse{State: session.EnterValue(ctx, cmd.Input)}, nil
}
