package resolvers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/application/wizard/resolvers"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
	"github.com/warelog/handheld-go/test/helpers"
)

func newProductResolver(t *testing.T, lookup *helpers.MockProductLookup) *resolvers.ProductResolver {
	t.Helper()
	return resolvers.NewTaskProductResolver(lookup, validation.NewFacade(), catalog.DefaultWeightBarcodeFormat())
}

func TestProductResolver_ResolvesByBarcode(t *testing.T) {
	// Arrange
	lookup := helpers.NewMockProductLookup()
	product := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")
	lookup.AddProduct(product)
	r := newProductResolver(t, lookup)

	// Act
	value, err := r.ResolveFromCode(context.Background(), "4001234567890", task.PlannedReference{})

	// Assert
	require.NoError(t, err)
	pv, ok := value.(wizard.ProductValue)
	require.True(t, ok)
	assert.Equal(t, "ART-100", pv.Product.Article)
	assert.True(t, pv.Weight.IsZero())
}

func TestProductResolver_PlannedProductSkipsCatalogLookup(t *testing.T) {
	// Arrange - catalog would error if consulted
	lookup := helpers.NewMockProductLookup()
	lookup.SetError("catalog offline")
	product := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")
	r := newProductResolver(t, lookup)

	// Act
	value, err := r.ResolveFromCode(context.Background(), "4001234567890", task.PlannedReference{Product: product})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ART-100", value.Identity())
	assert.Equal(t, 0, lookup.LookupCount)
}

func TestProductResolver_UnknownBarcodeIsNotFound(t *testing.T) {
	r := newProductResolver(t, helpers.NewMockProductLookup())

	_, err := r.ResolveFromCode(context.Background(), "0000000000000", task.PlannedReference{})

	require.Error(t, err)
	assert.IsType(t, &shared.NotFoundError{}, err)
}

func TestProductResolver_EmptyCodeIsInvalidFormat(t *testing.T) {
	r := newProductResolver(t, helpers.NewMockProductLookup())

	_, err := r.ResolveFromCode(context.Background(), "   ", task.PlannedReference{})

	require.Error(t, err)
	assert.IsType(t, &shared.InvalidFormatError{}, err)
}

func TestProductResolver_WeightBarcodeCarriesEmbeddedWeight(t *testing.T) {
	// Arrange - article 00042, weight 1.250 kg
	lookup := helpers.NewMockProductLookup()
	product := helpers.NewTestProduct(t, "00042", "Cheese wheel", "4000000000420")
	product.IsWeighed = true
	lookup.AddProduct(product)
	r := newProductResolver(t, lookup)

	// Act
	value, err := r.ResolveFromCode(context.Background(), "2100042012507", task.PlannedReference{})

	// Assert
	require.NoError(t, err)
	pv := value.(wizard.ProductValue)
	assert.Equal(t, "00042", pv.Product.Article)
	assert.True(t, pv.Weight.Equals(shared.MustNewQuantity(1.25)))
}

func TestProductResolver_WeightShapedCodeFallsBackToBarcodeLookup(t *testing.T) {
	// Arrange - a 13-digit "21" code that is a plain barcode, not a label
	lookup := helpers.NewMockProductLookup()
	product := helpers.NewTestProduct(t, "ART-200", "Soda crate", "2100099012345")
	lookup.AddProduct(product)
	r := newProductResolver(t, lookup)

	// Act
	value, err := r.ResolveFromCode(context.Background(), "2100099012345", task.PlannedReference{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ART-200", value.Identity())
}

func TestProductResolver_ValidateRejectsPlanMismatch(t *testing.T) {
	// Arrange
	lookup := helpers.NewMockProductLookup()
	r := newProductResolver(t, lookup)

	plannedProduct := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")
	scanned := helpers.NewTestProduct(t, "ART-999", "Sugar 1kg", "4009999999999")

	// Act
	outcome := r.Validate(
		wizard.ProductValue{Field: wizard.FieldTaskProduct, Product: scanned},
		task.PlannedReference{Product: plannedProduct},
		nil,
	)

	// Assert - the message names what the plan expected
	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Message, "Flour 1kg")
}

func TestProductResolver_ValidateAcceptsPlannedProduct(t *testing.T) {
	lookup := helpers.NewMockProductLookup()
	r := newProductResolver(t, lookup)
	product := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")

	outcome := r.Validate(
		wizard.ProductValue{Field: wizard.FieldTaskProduct, Product: product},
		task.PlannedReference{Product: product},
		nil,
	)

	assert.True(t, outcome.Valid)
}

func TestProductResolver_MatchesPlanned(t *testing.T) {
	lookup := helpers.NewMockProductLookup()
	r := newProductResolver(t, lookup)
	product := helpers.NewTestProduct(t, "00042", "Cheese wheel", "4000000000420")
	planned := task.PlannedReference{Product: product}

	assert.True(t, r.MatchesPlanned("4000000000420", planned))
	assert.True(t, r.MatchesPlanned("2100042012507", planned), "weight label for the planned article")
	assert.False(t, r.MatchesPlanned("4001111111111", planned))
	assert.False(t, r.MatchesPlanned("4000000000420", task.PlannedReference{}))
}
