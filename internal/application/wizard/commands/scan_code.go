package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// ScanCodeCommand feeds one scanner read into an open wizard session
type ScanCodeCommand struct {
	ActionID string
	Code     string
}

// ScanCodeResponse carries the wizard state after the scan was arbitrated,
// resolved and validated (or ignored)
type ScanCodeResponse struct {
	State wizard.State
}

// ScanCodeHandler handles the scan code command
type ScanCodeHandler struct {
	sessions *appwizard.Manager
}

// NewScanCodeHandler creates a new scan code handler
func NewScanCodeHandler(sessions *appwizard.Manager) *ScanCodeHandler {
	return &ScanCodeHandler{sessions: sessions}
}

// Handle executes the scan code command
func (h *ScanCodeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ScanCodeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	return &ScanCodeResponse{State: session.Scan(ctx, cmd.Code)}, nil
}
