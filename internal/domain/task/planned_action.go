package task

import (
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
)

// PlannedReference holds the expected values for a planned action: what the
// plan says the worker should find. Read-only source of truth for matching
// and validation; zero-value fields mean "nothing planned for this slot".
type PlannedReference struct {
	Product         *catalog.Product
	Bin             storage.Bin
	Pallet          storage.Pallet
	PlacementBin    storage.Bin
	PlacementPallet storage.Pallet
	Quantity        shared.Quantity
	HasQuantity     bool
}

// PlannedAction is one expected operation inside a task: receive this
// product into that bin, move this pallet there, and so on.
type PlannedAction struct {
	ID           string
	TaskID       string
	TemplateCode string
	Planned      PlannedReference
	Fact         *FactRecord
	lifecycle    *Lifecycle
}

// NewPlannedAction creates a planned action in PLANNED state
func NewPlannedAction(id, taskID, templateCode string, planned PlannedReference, clock shared.Clock) (*PlannedAction, error) {
	if id == "" {
		return nil, NewInvalidTaskDataError("action id cannot be empty")
	}
	if templateCode == "" {
		return nil, NewInvalidTaskDataError("action template code cannot be empty")
	}

	return &PlannedAction{
		ID:           id,
		TaskID:       taskID,
		TemplateCode: templateCode,
		Planned:      planned,
		lifecycle:    NewLifecycle(clock),
	}, nil
}

// Status returns the action's lifecycle status
func (a *PlannedAction) Status() Status {
	return a.lifecycle.Status()
}

// Start marks the action as being worked on
func (a *PlannedAction) Start() error {
	return a.lifecycle.Start()
}

// RecordFact attaches a completed fact record and closes the action.
// The record must be finalized; a partial record is never applied.
func (a *PlannedAction) RecordFact(fact *FactRecord) error {
	if fact == nil {
		return NewInvalidTaskDataError("fact record cannot be nil")
	}
	if !fact.IsCompleted() {
		return NewInvalidTaskDataError("fact record is not finalized")
	}
	if a.lifecycle.Status() == StatusPlanned {
		// Facts can arrive for actions the worker opened on another
		// device; start implicitly instead of rejecting.
		if err := a.lifecycle.Start(); err != nil {
			return err
		}
	}
	if err := a.lifecycle.Complete(); err != nil {
		return err
	}
	a.Fact = fact
	return nil
}

// Cancel abandons the action with a cause
func (a *PlannedAction) Cancel(cause string) error {
	return a.lifecycle.Cancel(cause)
}

// IsOpen returns true while the action can still accept a fact
func (a *PlannedAction) IsOpen() bool {
	return a.lifecycle.IsOpen()
}

// Lifecycle exposes the underlying lifecycle for persistence reconstruction
func (a *PlannedAction) Lifecycle() *Lifecycle {
	return a.lifecycle
}
