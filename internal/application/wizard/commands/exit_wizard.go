package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// ExitDecision selects which exit-flow event to raise
type ExitDecision string

const (
	// ExitShow raises the exit confirmation over the current step
	ExitShow ExitDecision = "SHOW"

	// ExitDismiss returns to where the wizard was
	ExitDismiss ExitDecision = "DISMISS"

	// ExitConfirm abandons the wizard; the planned action stays open
	ExitConfirm ExitDecision = "CONFIRM"
)

// ExitWizardCommand drives the exit confirmation flow
type ExitWizardCommand struct {
	ActionID string
	Decision ExitDecision
}

// ExitWizardResponse carries the wizard state after the exit event
type ExitWizardResponse struct {
	State wizard.State
}

// ExitWizardHandler handles the exit wizard command
type ExitWizardHandler struct {
	sessions *appwizard.Manager
}

// NewExitWizardHandler creates a new exit wizard handler
func NewExitWizardHandler(sessions *appwizard.Manager) *ExitWizardHandler {
	return &ExitWizardHandler{sessions: sessions}
}

// Handle executes the exit wizard command
func (h *ExitWizardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExitWizardCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	var state wizard.State
	switch cmd.Decision {
	case ExitShow:
		state = session.ShowExit(ctx)
	case ExitDismiss:
		state = session.DismissExit(ctx)
	case ExitConfirm:
		state = session.ConfirmExit(ctx)
		if state.Phase == wizard.PhaseCancelled {
			h.sessions.Close(cmd.ActionID)
		}
	default:
		return nil, fmt.Errorf("unknown exit decision: %s", cmd.Decision)
	}

	return &ExitWizardResponse{State: state}, nil
}
