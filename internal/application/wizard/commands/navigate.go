package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// AdvanceStepCommand confirms the current step and moves to the next
// visible one (or the summary)
type AdvanceStepCommand struct {
	ActionID string
}

// AdvanceStepResponse carries the wizard state after the move
type AdvanceStepResponse struct {
	State wizard.State
}

// AdvanceStepHandler handles the advance step command
type AdvanceStepHandler struct {
	sessions *appwizard.Manager
}

// NewAdvanceStepHandler creates a new advance step handler
func NewAdvanceStepHandler(sessions *appwizard.Manager) *AdvanceStepHandler {
	return &AdvanceStepHandler{sessions: sessions}
}

// Handle executes the advance step command
func (h *AdvanceStepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AdvanceStepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	return &AdvanceStepResponse{State: session.Advance(ctx)}, nil
}

// RetreatStepCommand moves to the previous visible step; from the first
// visible step it raises the exit confirmation instead
type RetreatStepCommand struct {
	ActionID string
}

// RetreatStepResponse carries the wizard state after the move
type RetreatStepResponse struct {
	State wizard.State
}

// RetreatStepHandler handles the retreat step command
type RetreatStepHandler struct {
	sessions *appwizard.Manager
}

// NewRetreatStepHandler creates a new retreat step handler
func NewRetreatStepHandler(sessions *appwizard.Manager) *RetreatStepHandler {
	return &RetreatStepHandler{sessions: sessions}
}

// Handle executes the retreat step command
func (h *RetreatStepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RetreatStepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	return &RetreatStepResponse{State: session.Retreat(ctx)}, nil
}
