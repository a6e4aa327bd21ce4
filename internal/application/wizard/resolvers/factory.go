package resolvers

import (
	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// Options carries the task-level policy knobs resolvers depend on
type Options struct {
	// ForbidOverPlan makes quantity-over-plan a hard validation failure
	ForbidOverPlan bool

	// WeightFormat configures scale label decoding; zero value falls back
	// to the default layout
	WeightFormat catalog.WeightBarcodeFormat
}

// Factory maps field types to resolver instances.
//
// An unmapped field type is a configuration error, not a runtime
// condition: lookups fail loudly with an UnmappedFieldTypeError rather
// than defaulting to anything.
type Factory struct {
	resolvers map[wizard.FieldType]Resolver
}

// NewFactory builds the full resolver set for one task
func NewFactory(lookup catalog.ProductLookup, facade *validation.Facade, opts Options) *Factory {
	if facade == nil {
		facade = validation.NewFacade()
	}
	weightFormat := opts.WeightFormat
	if weightFormat.Prefix == "" {
		weightFormat = catalog.DefaultWeightBarcodeFormat()
	}

	set := []Resolver{
		NewCatalogProductResolver(lookup, facade, weightFormat),
		NewTaskProductResolver(lookup, facade, weightFormat),
		NewStorageBinResolver(facade),
		NewStoragePalletResolver(facade),
		NewPlacementBinResolver(facade),
		NewPlacementPalletResolver(facade),
		NewQuantityResolver(facade, opts.ForbidOverPlan),
	}

	resolvers := make(map[wizard.FieldType]Resolver, len(set))
	for _, r := range set {
		resolvers[r.FieldType()] = r
	}
	return &Factory{resolvers: resolvers}
}

// ForField returns the resolver for a step's declared field type
func (f *Factory) ForField(field wizard.FieldType) (Resolver, error) {
	r, ok := f.resolvers[field]
	if !ok {
		return nil, shared.NewUnmappedFieldTypeError(field.String())
	}
	return r, nil
}

// Quantity returns the quantity resolver itself. Fact composition
// consults its plan-exceeded check, which needs the concrete type.
func (f *Factory) Quantity() *QuantityResolver {
	r, _ := f.resolvers[wizard.FieldQuantity].(*QuantityResolver)
	return r
}

// ForValue returns the resolver capable of validating an already resolved
// value, used when re-validating a stored result
func (f *Factory) ForValue(value wizard.Value) (Resolver, error) {
	if value == nil {
		return nil, shared.NewUnmappedFieldTypeError("<nil>")
	}
	return f.ForField(value.Kind())
}
