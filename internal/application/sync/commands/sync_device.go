package commands

import (
	"context"
	"fmt"

	"github.com/warelog/handheld-go/internal/application/common"
	appsync "github.com/warelog/handheld-go/internal/application/sync"
)

// SyncDeviceCommand pulls tasks, templates and catalog from the server
type SyncDeviceCommand struct {
	WorkerID int
}

// SyncDeviceResponse reports how much was synced
type SyncDeviceResponse struct {
	Tasks     int
	Templates int
	Products  int
}

// SyncDeviceHandler handles the sync device command
type SyncDeviceHandler struct {
	syncService *appsync.Service
}

// NewSyncDeviceHandler creates a new sync device handler
func NewSyncDeviceHandler(syncService *appsync.Service) *SyncDeviceHandler {
	return &SyncDeviceHandler{syncService: syncService}
}

// Handle executes the sync device command
func (h *SyncDeviceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SyncDeviceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	result, err := h.syncService.SyncAll(ctx, cmd.WorkerID)
	if err != nil {
		return nil, err
	}

	return &SyncDeviceResponse{
		Tasks:     result.Tasks,
		Templates: result.Templates,
		Products:  result.Products,
	}, nil
}
