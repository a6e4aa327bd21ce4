package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/adapters/persistence"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/wizard"
	"github.com/warelog/handheld-go/test/helpers"
)

func TestGormTemplateRepository_RoundTripPreservesRulesAndVisibility(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTemplateRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	min := 0.001
	max := 9999.0
	template := &wizard.ActionTemplate{
		Code: "putaway-advanced",
		Steps: []wizard.StepTemplate{
			{ID: "pallet", Field: wizard.FieldStoragePallet, Required: true, AutoAdvance: true},
			{
				ID:       "quantity",
				Field:    wizard.FieldQuantity,
				Required: true,
				Rules: &wizard.RuleSet{
					Min:     &min,
					Max:     &max,
					Message: "enter the counted amount",
				},
				Visibility: `planned.quantity`,
			},
			{ID: "bin", Field: wizard.FieldPlacementBin, Required: true, CaptureExtra: true},
		},
	}

	// Act
	require.NoError(t, repo.Upsert(ctx, template))
	loaded, err := repo.FindByCode(ctx, "putaway-advanced")

	// Assert
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 3)

	quantity := loaded.Steps[1]
	require.NotNil(t, quantity.Rules)
	require.NotNil(t, quantity.Rules.Min)
	assert.Equal(t, 0.001, *quantity.Rules.Min)
	assert.Equal(t, "enter the counted amount", quantity.Rules.Message)
	assert.Equal(t, "planned.quantity", quantity.Visibility)

	bin := loaded.Steps[2]
	assert.True(t, bin.CaptureExtra)
	assert.Nil(t, bin.Rules)
}

func TestGormTemplateRepository_MissingCodeIsConfigurationError(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTemplateRepository(helpers.NewTestDB(t))

	// Act
	_, err := repo.FindByCode(context.Background(), "nope")

	// Assert
	require.Error(t, err)
	assert.IsType(t, &shared.ConfigurationError{}, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestGormTemplateRepository_UpsertRejectsBrokenTemplate(t *testing.T) {
	// Arrange: two steps sharing an id
	repo := persistence.NewGormTemplateRepository(helpers.NewTestDB(t))
	broken := &wizard.ActionTemplate{
		Code: "broken",
		Steps: []wizard.StepTemplate{
			{ID: "product", Field: wizard.FieldTaskProduct},
			{ID: "product", Field: wizard.FieldQuantity},
		},
	}

	// Act
	err := repo.Upsert(context.Background(), broken)

	// Assert
	require.Error(t, err)

	_, err = repo.FindByCode(context.Background(), "broken")
	assert.Error(t, err, "nothing was stored")
}

func TestGormTemplateRepository_UpsertReplacesExistingDocument(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTemplateRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, helpers.NewReceiptTemplate()))

	updated := helpers.NewReceiptTemplate()
	updated.Steps = updated.Steps[:2]

	// Act
	require.NoError(t, repo.Upsert(ctx, updated))
	loaded, err := repo.FindByCode(ctx, "receipt-basic")

	// Assert
	require.NoError(t, err)
	assert.Len(t, loaded.Steps, 2)
}
