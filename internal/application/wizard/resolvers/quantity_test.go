package resolvers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/application/wizard/resolvers"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

func plannedTen() task.PlannedReference {
	return task.PlannedReference{
		Quantity:    shared.MustNewQuantity(10),
		HasQuantity: true,
	}
}

func TestQuantityResolver_ParsesTypedAmounts(t *testing.T) {
	r := resolvers.NewQuantityResolver(validation.NewFacade(), false)

	value, err := r.ResolveFromCode(context.Background(), "2,5", task.PlannedReference{})

	require.NoError(t, err)
	qv := value.(wizard.QuantityValue)
	assert.True(t, qv.Quantity.Equals(shared.MustNewQuantity(2.5)))

	_, err = r.ResolveFromCode(context.Background(), "a dozen", task.PlannedReference{})
	assert.IsType(t, &shared.InvalidFormatError{}, err)
}

func TestQuantityResolver_OverPlanIsAllowedByDefault(t *testing.T) {
	r := resolvers.NewQuantityResolver(validation.NewFacade(), false)
	over := wizard.QuantityValue{Quantity: shared.MustNewQuantity(12)}

	outcome := r.Validate(over, plannedTen(), nil)

	// Allowed, but flagged for the fact record
	assert.True(t, outcome.Valid)
	assert.True(t, r.ExceedsPlan(over, plannedTen()))
}

func TestQuantityResolver_OverPlanFailsWhenForbidden(t *testing.T) {
	r := resolvers.NewQuantityResolver(validation.NewFacade(), true)
	over := wizard.QuantityValue{Quantity: shared.MustNewQuantity(12)}

	outcome := r.Validate(over, plannedTen(), nil)

	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Message, "10")
}

func TestQuantityResolver_ExactAndUnderPlanNeverExceed(t *testing.T) {
	r := resolvers.NewQuantityResolver(validation.NewFacade(), true)

	exact := wizard.QuantityValue{Quantity: shared.MustNewQuantity(10)}
	under := wizard.QuantityValue{Quantity: shared.MustNewQuantity(8)}

	assert.True(t, r.Validate(exact, plannedTen(), nil).Valid)
	assert.True(t, r.Validate(under, plannedTen(), nil).Valid)
	assert.False(t, r.ExceedsPlan(exact, plannedTen()))
	assert.False(t, r.ExceedsPlan(under, plannedTen()))
}

func TestQuantityResolver_DeclarativeRulesRunFirst(t *testing.T) {
	r := resolvers.NewQuantityResolver(validation.NewFacade(), false)
	rules := &wizard.RuleSet{Min: wizard.Float64Ptr(1)}

	outcome := r.Validate(wizard.QuantityValue{Quantity: shared.MustNewQuantity(0.5)}, plannedTen(), rules)

	assert.False(t, outcome.Valid)
}

func TestBinResolver_DirectionalPlanSlots(t *testing.T) {
	// Arrange - storage and placement planned to different bins
	planned := task.PlannedReference{
		Bin:          storage.MustNewBin("A-01"),
		PlacementBin: storage.MustNewBin("B-09"),
	}
	facade := validation.NewFacade()
	storageResolver := resolvers.NewStorageBinResolver(facade)
	placementResolver := resolvers.NewPlacementBinResolver(facade)

	// Act / Assert - each direction validates against its own slot
	fromValue := wizard.BinValue{Field: wizard.FieldStorageBin, Bin: storage.MustNewBin("A-01")}
	assert.True(t, storageResolver.Validate(fromValue, planned, nil).Valid)

	misplaced := wizard.BinValue{Field: wizard.FieldPlacementBin, Bin: storage.MustNewBin("A-01")}
	outcome := placementResolver.Validate(misplaced, planned, nil)
	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Message, "B-09")

	assert.True(t, storageResolver.MatchesPlanned(" a-01 ", planned))
	assert.False(t, placementResolver.MatchesPlanned("A-01", planned))
}

func TestPalletResolver_UnplannedSlotAcceptsAnyPallet(t *testing.T) {
	facade := validation.NewFacade()
	r := resolvers.NewStoragePalletResolver(facade)

	value, err := r.ResolveFromCode(context.Background(), "PAL-007", task.PlannedReference{})
	require.NoError(t, err)

	assert.True(t, r.Validate(value, task.PlannedReference{}, nil).Valid)
	assert.False(t, r.MatchesPlanned("PAL-007", task.PlannedReference{}))
}
