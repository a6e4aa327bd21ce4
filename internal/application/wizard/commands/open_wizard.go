package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// OpenWizardCommand starts (or reattaches to) a wizard session for one
// planned action
type OpenWizardCommand struct {
	TaskID   string
	ActionID string
}

// OpenWizardResponse carries the initial wizard state
type OpenWizardResponse struct {
	State wizard.State
}

// OpenWizardHandler handles the open wizard command
type OpenWizardHandler struct {
	sessions *appwizard.Manager
}

// NewOpenWizardHandler creates a new open wizard handler
func NewOpenWizardHandler(sessions *appwizard.Manager) *OpenWizardHandler {
	return &OpenWizardHandler{sessions: sessions}
}

// Handle executes the open wizard command
func (h *OpenWizardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*OpenWizardCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Open(ctx, cmd.TaskID, cmd.ActionID)
	return &OpenWizardResponse{State: session.State()}, nil
}
