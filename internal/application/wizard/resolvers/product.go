package resolvers

import (
	"context"
	"fmt"
	"strings"

	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// ProductResolver resolves catalog products and task-scoped products from
// barcode scans. Both field types share the resolution path (weight label
// first, then catalog lookup); they differ in where validation anchors:
// a task-scoped product must match the plan, a catalog product only has
// to exist.
type ProductResolver struct {
	field        wizard.FieldType
	lookup       catalog.ProductLookup
	facade       *validation.Facade
	weightFormat catalog.WeightBarcodeFormat
}

// NewCatalogProductResolver creates the resolver for free catalog scans
func NewCatalogProductResolver(lookup catalog.ProductLookup, facade *validation.Facade, weightFormat catalog.WeightBarcodeFormat) *ProductResolver {
	return &ProductResolver{
		field:        wizard.FieldCatalogProduct,
		lookup:       lookup,
		facade:       facade,
		weightFormat: weightFormat,
	}
}

// NewTaskProductResolver creates the resolver for plan-scoped product steps
func NewTaskProductResolver(lookup catalog.ProductLookup, facade *validation.Facade, weightFormat catalog.WeightBarcodeFormat) *ProductResolver {
	return &ProductResolver{
		field:        wizard.FieldTaskProduct,
		lookup:       lookup,
		facade:       facade,
		weightFormat: weightFormat,
	}
}

// FieldType returns the field type this resolver serves
func (r *ProductResolver) FieldType() wizard.FieldType {
	return r.field
}

// ResolveFromCode parses a scan into a product value. Scale labels are
// tried first so their embedded weight is captured; everything else goes
// through the catalog.
func (r *ProductResolver) ResolveFromCode(ctx context.Context, code string, planned task.PlannedReference) (wizard.Value, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, shared.NewInvalidFormatError(code, "barcode cannot be empty")
	}

	// Short-circuit: a code that obviously denotes the planned product
	// skips the catalog round trip
	if planned.Product != nil && planned.Product.HasBarcode(trimmed) {
		return wizard.ProductValue{Field: r.field, Product: planned.Product}, nil
	}

	if scan, ok := catalog.ParseWeightBarcode(trimmed, r.weightFormat); ok {
		if planned.Product != nil && scan.Article == planned.Product.Article {
			return wizard.ProductValue{Field: r.field, Product: planned.Product, Weight: scan.Weight}, nil
		}
		product, err := r.lookup.FindByArticle(ctx, scan.Article)
		if err != nil {
			return nil, fmt.Errorf("catalog lookup failed: %w", err)
		}
		if product != nil {
			return wizard.ProductValue{Field: r.field, Product: product, Weight: scan.Weight}, nil
		}
		// Fall through: a code that happens to fit the weight layout can
		// still be an ordinary barcode
	}

	product, err := r.lookup.FindByBarcode(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if product == nil {
		return nil, shared.NewNotFoundError("product", trimmed)
	}
	return wizard.ProductValue{Field: r.field, Product: product}, nil
}

// MatchesPlanned reports whether the code obviously denotes the planned
// product, without a catalog round trip
func (r *ProductResolver) MatchesPlanned(code string, planned task.PlannedReference) bool {
	if planned.Product == nil {
		return false
	}
	trimmed := strings.TrimSpace(code)
	if planned.Product.HasBarcode(trimmed) {
		return true
	}
	if scan, ok := catalog.ParseWeightBarcode(trimmed, r.weightFormat); ok {
		return scan.Article == planned.Product.Article
	}
	return false
}

// Validate applies declarative rules, then plan exactness
func (r *ProductResolver) Validate(value wizard.Value, planned task.PlannedReference, rules *wizard.RuleSet) validation.Outcome {
	pv, ok := value.(wizard.ProductValue)
	if !ok || pv.Product == nil {
		return validation.Fail("no product resolved")
	}

	if outcome := r.facade.ApplyString(pv.Product.Article, rules); !outcome.Valid {
		return outcome
	}

	if planned.Product != nil && !pv.Product.SameAs(planned.Product) {
		mismatch := shared.NewPlanMismatchError("product", planned.Product.String(), pv.Product.String())
		return validation.Fail(mismatch.Message)
	}
	return validation.OK()
}
