package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
)

// FactRecord is the output record the wizard assembles: what actually
// happened, recorded against a planned action.
//
// Built incrementally as steps complete; finalized only when the wizard
// reaches its terminal completed state. One slot per field type.
type FactRecord struct {
	ID       string
	TaskID   string
	ActionID string

	Product         *catalog.Product
	TaskProduct     *catalog.Product
	Bin             storage.Bin
	Pallet          storage.Pallet
	PlacementBin    storage.Bin
	PlacementPallet storage.Pallet
	Quantity        shared.Quantity

	// Additional captured properties for products that require them
	ExpiryDate    *time.Time
	ProductStatus string

	// PlanExceeded marks facts whose quantity went over plan on a task
	// that permits it; the server decides how to book the surplus.
	PlanExceeded bool

	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewFactRecord starts an empty fact record for a planned action
func NewFactRecord(taskID, actionID string, clock shared.Clock) *FactRecord {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &FactRecord{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		ActionID:  actionID,
		StartedAt: clock.Now(),
	}
}

// Complete stamps the completion time. Returns false if already completed.
func (f *FactRecord) Complete(clock shared.Clock) bool {
	if f.CompletedAt != nil {
		return false
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	now := clock.Now()
	f.CompletedAt = &now
	return true
}

// IsCompleted returns true once the record has been finalized
func (f *FactRecord) IsCompleted() bool {
	return f.CompletedAt != nil
}

// Clone returns a copy of the record. Slices and pointers to immutable
// domain values are shared; timestamps are copied by value.
func (f *FactRecord) Clone() *FactRecord {
	copied := *f
	if f.ExpiryDate != nil {
		expiry := *f.ExpiryDate
		copied.ExpiryDate = &expiry
	}
	if f.CompletedAt != nil {
		completed := *f.CompletedAt
		copied.CompletedAt = &completed
	}
	return &copied
}
