package helpers

import (
	"testing"

	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// NewTestProduct builds a catalog product with one barcode
func NewTestProduct(t *testing.T, article, name, barcode string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(article, name, []string{barcode})
	if err != nil {
		t.Fatalf("failed to build test product: %v", err)
	}
	return p
}

// NewReceiptTask builds a RECEIPT task with a single planned action:
// expect the given product into the given bin, with the planned quantity.
func NewReceiptTask(t *testing.T, clock shared.Clock, product *catalog.Product, binCode string, quantity float64) *task.Task {
	t.Helper()

	tk, err := task.NewTask("task-1", task.TypeReceipt, shared.MustNewWorkerID(7), clock)
	if err != nil {
		t.Fatalf("failed to build test task: %v", err)
	}
	tk.SyncRequired = true
	tk.Endpoint = "receipts"

	planned := task.PlannedReference{
		Product:     product,
		Bin:         storage.MustNewBin(binCode),
		Quantity:    shared.MustNewQuantity(quantity),
		HasQuantity: true,
	}

	action, err := task.NewPlannedAction("action-1", tk.ID, "receipt-basic", planned, clock)
	if err != nil {
		t.Fatalf("failed to build planned action: %v", err)
	}
	if err := tk.AddAction(action); err != nil {
		t.Fatalf("failed to add planned action: %v", err)
	}

	return tk
}

// NewReceiptTemplate builds the matching three-step template:
// task product, quantity, placement bin.
func NewReceiptTemplate() *wizard.ActionTemplate {
	return &wizard.ActionTemplate{
		Code: "receipt-basic",
		Steps: []wizard.StepTemplate{
			{ID: "product", Field: wizard.FieldTaskProduct, Required: true, AutoAdvance: true},
			{ID: "quantity", Field: wizard.FieldQuantity, Required: true},
			{ID: "bin", Field: wizard.FieldStorageBin, Required: true, AutoAdvance: true},
		},
	}
}
