package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/adapters/persistence"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/test/helpers"
)

func TestGormProductRepository_FindByBarcodeUsesIndex(t *testing.T) {
	// Arrange
	repo := persistence.NewGormProductRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	product, err := catalog.NewProduct("ART-100", "Flour 1kg", []string{"4001234567890", "4001234567891"})
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, product))

	// Act & Assert: both barcodes resolve to the same product
	found, err := repo.FindByBarcode(ctx, "4001234567890")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ART-100", found.Article)

	found, err = repo.FindByBarcode(ctx, "4001234567891")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Flour 1kg", found.Name)
}

func TestGormProductRepository_UnknownBarcodeIsAbsenceNotError(t *testing.T) {
	// Arrange
	repo := persistence.NewGormProductRepository(helpers.NewTestDB(t))

	// Act
	found, err := repo.FindByBarcode(context.Background(), "0000000000000")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGormProductRepository_UpsertRebuildsBarcodeIndex(t *testing.T) {
	// Arrange: the server reassigned one of the product's barcodes
	repo := persistence.NewGormProductRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	before, err := catalog.NewProduct("ART-100", "Flour 1kg", []string{"4001234567890"})
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, before))

	after, err := catalog.NewProduct("ART-100", "Flour 1kg", []string{"4001234567899"})
	require.NoError(t, err)

	// Act
	require.NoError(t, repo.Upsert(ctx, after))

	// Assert: the old barcode no longer resolves
	found, err := repo.FindByBarcode(ctx, "4001234567890")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByBarcode(ctx, "4001234567899")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ART-100", found.Article)
}

func TestGormProductRepository_RoundTripPreservesUnitAndFlags(t *testing.T) {
	// Arrange
	repo := persistence.NewGormProductRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	product, err := catalog.NewProduct("ART-200", "Cheese wheel", []string{"2100020000000"})
	require.NoError(t, err)
	product.UnitName = "kg"
	product.UnitFactor = shared.MustNewQuantity(0.5)
	product.RequiresExpiry = true
	product.IsWeighed = true
	require.NoError(t, repo.Upsert(ctx, product))

	// Act
	found, err := repo.FindByArticle(ctx, "ART-200")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "kg", found.UnitName)
	assert.True(t, found.UnitFactor.Equals(shared.MustNewQuantity(0.5)))
	assert.True(t, found.RequiresExpiry)
	assert.True(t, found.IsWeighed)
}
