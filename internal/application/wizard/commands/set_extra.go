package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// SetExtraCommand captures additional product properties (expiry date,
// stock status) on a step that is flagged to collect them
type SetExtraCommand struct {
	ActionID      string
	ExpiryDate    *time.Time
	ProductStatus string
}

// SetExtraResponse carries the wizard state after capture
type SetExtraResponse struct {
	State wizard.State
}

// SetExtraHandler handles the set extra command
type SetExtraHandler struct {
	sessions *appwizard.Manager
}

// NewSetExtraHandler creates a new set extra handler
func NewSetExtraHandler(sessions *appwizard.Manager) *SetExtraHandler {
	return &SetExtraHandler{sessions: sessions}
}

// Handle executes the set extra command
func (h *SetExtraHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetExtraCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(cmd.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(cmd.ActionID)
	}

	return &SetExtraResponse{State: session.SetExtra(ctx, cmd.ExpiryDate, cmd.ProductStatus)}, nil
}
