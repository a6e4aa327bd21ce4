package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

func newTestMachine(t *testing.T) *wizard.Machine {
	t.Helper()
	product, err := catalog.NewProduct("ART-100", "Flour 1kg", []string{"4001234567890"})
	require.NoError(t, err)

	planned := task.PlannedReference{
		Product:     product,
		Bin:         storage.MustNewBin("A-01-01"),
		Quantity:    shared.MustNewQuantity(10),
		HasQuantity: true,
	}
	return wizard.NewMachine(nil, planned, "RECEIPT", "receipt-basic")
}

func threeSteps() []wizard.StepTemplate {
	return []wizard.StepTemplate{
		{ID: "product", Field: wizard.FieldTaskProduct, Required: true},
		{ID: "quantity", Field: wizard.FieldQuantity, Required: true},
		{ID: "bin", Field: wizard.FieldStorageBin, Required: true},
	}
}

func initialized(t *testing.T, m *wizard.Machine, steps []wizard.StepTemplate) wizard.State {
	t.Helper()
	s, err := m.Apply(wizard.NewState(), wizard.InitializeEvent{
		TaskID:   "task-1",
		ActionID: "action-1",
		Steps:    steps,
	})
	require.NoError(t, err)
	return s
}

func productValue(t *testing.T, field wizard.FieldType) wizard.Value {
	t.Helper()
	p, err := catalog.NewProduct("ART-100", "Flour 1kg", []string{"4001234567890"})
	require.NoError(t, err)
	return wizard.ProductValue{Field: field, Product: p}
}

func TestMachine_InitializeActivatesFirstStep(t *testing.T) {
	// Arrange
	m := newTestMachine(t)

	// Act
	s := initialized(t, m, threeSteps())

	// Assert
	assert.Equal(t, wizard.PhaseStepActive, s.Phase)
	assert.Equal(t, 0, s.CurrentIndex)
	step, ok := s.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "product", step.ID)
}

func TestMachine_InitializeWithAllStepsHiddenSummarizes(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	steps := []wizard.StepTemplate{
		{ID: "never", Field: wizard.FieldQuantity, Visibility: "false"},
	}

	// Act
	s := initialized(t, m, steps)

	// Assert
	assert.Equal(t, wizard.PhaseSummarizing, s.Phase)
	assert.True(t, s.AllStepsConsumed())
}

func TestMachine_SetObjectStoresValueAndClearsStepError(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())
	s, err := m.Apply(s, wizard.SetErrorEvent{StepID: "product", Message: "unknown barcode"})
	require.NoError(t, err)

	// Act
	s, err = m.Apply(s, wizard.SetObjectEvent{StepID: "product", Value: productValue(t, wizard.FieldTaskProduct)})

	// Assert
	require.NoError(t, err)
	value, ok := s.ResultFor("product")
	require.True(t, ok)
	assert.Equal(t, "ART-100", value.Identity())
	assert.Empty(t, s.StepErrors["product"])
}

func TestMachine_SetObjectRejectsWrongValueKind(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())

	// Act - a bin value lands on the product step
	_, err := m.Apply(s, wizard.SetObjectEvent{
		StepID: "product",
		Value:  wizard.BinValue{Field: wizard.FieldStorageBin, Bin: storage.MustNewBin("A-01-01")},
	})

	// Assert
	assert.Error(t, err)
	assert.IsType(t, &wizard.ValueKindMismatchError{}, err)
}

func TestMachine_SetObjectWithNilValueClearsResult(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())
	s, err := m.Apply(s, wizard.SetObjectEvent{StepID: "product", Value: productValue(t, wizard.FieldTaskProduct)})
	require.NoError(t, err)

	// Act
	s, err = m.Apply(s, wizard.SetObjectEvent{StepID: "product", Value: nil})

	// Assert
	require.NoError(t, err)
	_, ok := s.ResultFor("product")
	assert.False(t, ok)
}

func TestMachine_SetObjectIgnoredWhileLoading(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())
	s, err := m.Apply(s, wizard.SetLoadingEvent{Loading: true})
	require.NoError(t, err)

	// Act
	s, err = m.Apply(s, wizard.SetObjectEvent{StepID: "product", Value: productValue(t, wizard.FieldTaskProduct)})

	// Assert - dropped silently, the in-flight resolution wins
	require.NoError(t, err)
	_, ok := s.ResultFor("product")
	assert.False(t, ok)
}

func TestMachine_AdvanceBlocksOnRequiredStepWithoutValue(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())

	// Act
	s, err := m.Apply(s, wizard.AdvanceEvent{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.NotEmpty(t, s.StepErrors["product"])
}

func TestMachine_AdvanceThroughAllStepsReachesSummary(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())

	values := map[string]wizard.Value{
		"product":  productValue(t, wizard.FieldTaskProduct),
		"quantity": wizard.QuantityValue{Quantity: shared.MustNewQuantity(10)},
		"bin":      wizard.BinValue{Field: wizard.FieldStorageBin, Bin: storage.MustNewBin("A-01-01")},
	}

	// Act
	var err error
	for _, id := range []string{"product", "quantity", "bin"} {
		s, err = m.Apply(s, wizard.SetObjectEvent{StepID: id, Value: values[id]})
		require.NoError(t, err)
		s, err = m.Apply(s, wizard.AdvanceEvent{})
		require.NoError(t, err)
	}

	// Assert
	assert.Equal(t, wizard.PhaseSummarizing, s.Phase)
	assert.True(t, s.ShowingSummary())
}

func TestMachine_RetreatFromFirstStepShowsExitConfirm(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())

	// Act
	s, err := m.Apply(s, wizard.RetreatEvent{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseExitConfirming, s.Phase)
	assert.True(t, s.ShowingExitConfirm())
}

func TestMachine_DismissExitResumesActiveStep(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())
	s, err := m.Apply(s, wizard.ShowExitEvent{})
	require.NoError(t, err)

	// Act
	s, err = m.Apply(s, wizard.DismissExitEvent{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseStepActive, s.Phase)
	assert.Equal(t, 0, s.CurrentIndex)
}

func TestMachine_ConfirmExitCancels(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())
	s, err := m.Apply(s, wizard.ShowExitEvent{})
	require.NoError(t, err)

	// Act
	s, err = m.Apply(s, wizard.ConfirmExitEvent{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseCancelled, s.Phase)
	assert.True(t, s.Phase.IsTerminal())
}

func TestMachine_SubmitLifecycle(t *testing.T) {
	// Arrange - drive the wizard to the summary
	m := newTestMachine(t)
	s := initialized(t, m, []wizard.StepTemplate{
		{ID: "quantity", Field: wizard.FieldQuantity, Required: true},
	})
	s, err := m.Apply(s, wizard.SetObjectEvent{StepID: "quantity", Value: wizard.QuantityValue{Quantity: shared.MustNewQuantity(4)}})
	require.NoError(t, err)
	s, err = m.Apply(s, wizard.AdvanceEvent{})
	require.NoError(t, err)
	require.Equal(t, wizard.PhaseSummarizing, s.Phase)

	// Act - submit fails, then succeeds on retry
	s, err = m.Apply(s, wizard.SubmitEvent{})
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseSubmitting, s.Phase)
	assert.True(t, s.Loading)

	s, err = m.Apply(s, wizard.SubmitFailedEvent{Reason: "lot 77 already fully booked"})
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseSubmitFailed, s.Phase)
	assert.Equal(t, "lot 77 already fully booked", s.FatalError)
	assert.False(t, s.Loading)

	s, err = m.Apply(s, wizard.SubmitEvent{})
	require.NoError(t, err)
	assert.Empty(t, s.FatalError)

	s, err = m.Apply(s, wizard.SubmitSucceededEvent{})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, wizard.PhaseCompleted, s.Phase)
	assert.True(t, s.Phase.IsTerminal())
}

func TestMachine_SubmitFromStepActiveIsRejected(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())

	// Act
	_, err := m.Apply(s, wizard.SubmitEvent{})

	// Assert
	assert.Error(t, err)
	assert.IsType(t, &wizard.InvalidTransitionError{}, err)
}

func TestMachine_FatalErrorDuringInitializationLandsInLoadError(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := wizard.NewState()

	// Act
	s, err := m.Apply(s, wizard.SetFatalErrorEvent{Message: "action template not found: missing"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseLoadError, s.Phase)
	assert.True(t, s.Phase.IsTerminal())
}

func TestMachine_InitializeRestartsFromLoadError(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	s := wizard.NewState()
	s, err := m.Apply(s, wizard.SetFatalErrorEvent{Message: "boom"})
	require.NoError(t, err)
	require.Equal(t, wizard.PhaseLoadError, s.Phase)

	// Act
	s, err = m.Apply(s, wizard.InitializeEvent{TaskID: "task-1", ActionID: "action-1", Steps: threeSteps()})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseStepActive, s.Phase)
	assert.Empty(t, s.FatalError)
}

func TestMachine_ApplyDoesNotMutateInputState(t *testing.T) {
	// Arrange
	m := newTestMachine(t)
	before := initialized(t, m, threeSteps())

	// Act
	after, err := m.Apply(before, wizard.SetObjectEvent{StepID: "product", Value: productValue(t, wizard.FieldTaskProduct)})
	require.NoError(t, err)

	// Assert
	_, inBefore := before.ResultFor("product")
	_, inAfter := after.ResultFor("product")
	assert.False(t, inBefore)
	assert.True(t, inAfter)
}

func TestMachine_VisibilitySkipsHiddenStep(t *testing.T) {
	// Arrange - the pallet step only shows for PUTAWAY tasks
	m := newTestMachine(t) // task type RECEIPT
	steps := []wizard.StepTemplate{
		{ID: "product", Field: wizard.FieldTaskProduct},
		{ID: "pallet", Field: wizard.FieldStoragePallet, Visibility: `task.type == "PUTAWAY"`},
		{ID: "quantity", Field: wizard.FieldQuantity},
	}
	s := initialized(t, m, steps)

	// Act
	s, err := m.Apply(s, wizard.AdvanceEvent{})

	// Assert - pallet is skipped
	require.NoError(t, err)
	step, ok := s.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "quantity", step.ID)
}
