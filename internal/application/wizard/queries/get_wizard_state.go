package queries

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// GetWizardStateQuery retrieves the current state of an open session
type GetWizardStateQuery struct {
	ActionID string
}

// GetWizardStateResponse contains the state snapshot and the record
// assembled so far
type GetWizardStateResponse struct {
	State  wizard.State
	Record *task.FactRecord
}

// GetWizardStateHandler handles wizard state queries
type GetWizardStateHandler struct {
	sessions *appwizard.Manager
}

// NewGetWizardStateHandler creates a new wizard state query handler
func NewGetWizardStateHandler(sessions *appwizard.Manager) *GetWizardStateHandler {
	return &GetWizardStateHandler{sessions: sessions}
}

// Handle executes the get wizard state query
func (h *GetWizardStateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetWizardStateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	session := h.sessions.Get(query.ActionID)
	if session == nil {
		return nil, appwizard.NewNoOpenSessionError(query.ActionID)
	}

	return &GetWizardStateResponse{
		State:  session.State(),
		Record: session.Record(),
	}, nil
}
