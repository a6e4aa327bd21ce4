package api

import (
	"fmt"

	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// documentToTask reconstructs a task aggregate from a server document
func documentToTask(doc *taskDocument, clock shared.Clock) (*task.Task, error) {
	t, err := task.NewTask(doc.ID, task.Type(doc.Type), shared.MustNewWorkerID(doc.WorkerID), clock)
	if err != nil {
		return nil, fmt.Errorf("invalid task document %s: %w", doc.ID, err)
	}
	t.SyncRequired = doc.SyncRequired
	t.Endpoint = doc.Endpoint
	t.ForbidOverPlan = doc.ForbidOverPlan
	t.Lifecycle().RecoverFromPersistence(
		task.Status(doc.Status),
		doc.CreatedAt, doc.UpdatedAt,
		doc.StartedAt, doc.FinishedAt,
		doc.CancelCause,
	)

	for i := range doc.Actions {
		action, err := documentToAction(&doc.Actions[i], clock)
		if err != nil {
			return nil, err
		}
		if err := t.AddAction(action); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func documentToAction(doc *actionDocument, clock shared.Clock) (*task.PlannedAction, error) {
	planned, err := documentToPlanned(&doc.Planned)
	if err != nil {
		return nil, fmt.Errorf("invalid planned reference on action %s: %w", doc.ID, err)
	}

	action, err := task.NewPlannedAction(doc.ID, doc.TaskID, doc.TemplateCode, planned, clock)
	if err != nil {
		return nil, err
	}
	action.Lifecycle().RecoverFromPersistence(
		task.Status(doc.Status),
		doc.CreatedAt, doc.UpdatedAt,
		doc.StartedAt, doc.FinishedAt,
		doc.CancelCause,
	)
	if doc.Fact != nil {
		fact, err := documentToFact(doc.Fact)
		if err != nil {
			return nil, err
		}
		action.Fact = fact
	}
	return action, nil
}

func documentToPlanned(doc *plannedDocument) (task.PlannedReference, error) {
	planned := task.PlannedReference{}
	if doc.Product != nil {
		product, err := documentToProduct(doc.Product)
		if err != nil {
			return planned, err
		}
		planned.Product = product
	}
	var err error
	if planned.Bin, err = optionalBin(doc.Bin); err != nil {
		return planned, err
	}
	if planned.Pallet, err = optionalPallet(doc.Pallet); err != nil {
		return planned, err
	}
	if planned.PlacementBin, err = optionalBin(doc.PlacementBin); err != nil {
		return planned, err
	}
	if planned.PlacementPallet, err = optionalPallet(doc.PlacementPallet); err != nil {
		return planned, err
	}
	if doc.Quantity != nil {
		quantity, err := shared.NewQuantity(*doc.Quantity)
		if err != nil {
			return planned, err
		}
		planned.Quantity = quantity
		planned.HasQuantity = true
	}
	return planned, nil
}

func documentToFact(doc *factDocument) (*task.FactRecord, error) {
	fact := &task.FactRecord{
		ID:            doc.ID,
		TaskID:        doc.TaskID,
		ActionID:      doc.ActionID,
		ProductStatus: doc.ProductStatus,
		PlanExceeded:  doc.PlanExceeded,
		StartedAt:     doc.StartedAt,
		CompletedAt:   doc.CompletedAt,
	}
	quantity, err := shared.NewQuantity(doc.Quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity on fact %s: %w", doc.ID, err)
	}
	fact.Quantity = quantity
	if doc.ExpiryDate != nil {
		expiry := *doc.ExpiryDate
		fact.ExpiryDate = &expiry
	}
	if fact.Bin, err = optionalBin(doc.Bin); err != nil {
		return nil, err
	}
	if fact.Pallet, err = optionalPallet(doc.Pallet); err != nil {
		return nil, err
	}
	if fact.PlacementBin, err = optionalBin(doc.PlacementBin); err != nil {
		return nil, err
	}
	if fact.PlacementPallet, err = optionalPallet(doc.PlacementPallet); err != nil {
		return nil, err
	}
	return fact, nil
}

func documentToProduct(doc *productDocument) (*catalog.Product, error) {
	product, err := catalog.NewProduct(doc.Article, doc.Name, doc.Barcodes)
	if err != nil {
		return nil, err
	}
	if doc.UnitName != "" {
		product.UnitName = doc.UnitName
	}
	if doc.UnitFactor > 0 {
		factor, err := shared.NewQuantity(doc.UnitFactor)
		if err != nil {
			return nil, err
		}
		product.UnitFactor = factor
	}
	product.RequiresExpiry = doc.RequiresExpiry
	product.IsWeighed = doc.IsWeighed
	return product, nil
}

func documentToTemplate(doc *templateDocument) (*wizard.ActionTemplate, error) {
	steps := make([]wizard.StepTemplate, 0, len(doc.Steps))
	for _, stepDoc := range doc.Steps {
		step := wizard.StepTemplate{
			ID:           stepDoc.ID,
			Field:        wizard.FieldType(stepDoc.Field),
			Required:     stepDoc.Required,
			Visibility:   stepDoc.Visibility,
			CaptureExtra: stepDoc.CaptureExtra,
			AutoAdvance:  stepDoc.AutoAdvance,
		}
		if stepDoc.Rules != nil {
			step.Rules = &wizard.RuleSet{
				Required: stepDoc.Rules.Required,
				Min:      stepDoc.Rules.Min,
				Max:      stepDoc.Rules.Max,
				MinLen:   stepDoc.Rules.MinLen,
				MaxLen:   stepDoc.Rules.MaxLen,
				Pattern:  stepDoc.Rules.Pattern,
				Message:  stepDoc.Rules.Message,
			}
		}
		steps = append(steps, step)
	}

	template := &wizard.ActionTemplate{Code: doc.Code, Steps: steps}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	return template, nil
}

// factToDocument serializes a finalized record for submission
func factToDocument(f *task.FactRecord) *factDocument {
	doc := &factDocument{
		ID:              f.ID,
		TaskID:          f.TaskID,
		ActionID:        f.ActionID,
		Bin:             f.Bin.Code(),
		Pallet:          f.Pallet.Code(),
		PlacementBin:    f.PlacementBin.Code(),
		PlacementPallet: f.PlacementPallet.Code(),
		Quantity:        f.Quantity.Amount(),
		ProductStatus:   f.ProductStatus,
		PlanExceeded:    f.PlanExceeded,
		StartedAt:       f.StartedAt,
		CompletedAt:     f.CompletedAt,
	}
	if f.Product != nil {
		doc.Article = f.Product.Article
	}
	if f.TaskProduct != nil {
		doc.TaskArticle = f.TaskProduct.Article
	}
	if f.ExpiryDate != nil {
		expiry := *f.ExpiryDate
		doc.ExpiryDate = &expiry
	}
	return doc
}

func optionalBin(code string) (storage.Bin, error) {
	if code == "" {
		return storage.Bin{}, nil
	}
	return storage.NewBin(code)
}

func optionalPallet(code string) (storage.Pallet, error) {
	if code == "" {
		return storage.Pallet{}, nil
	}
	return storage.NewPallet(code)
}
