package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

func evalContext(t *testing.T) wizard.EvalContext {
	t.Helper()
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())
	return m.Context(s)
}

func TestEvaluator_BlankExpressionIsVisible(t *testing.T) {
	e := wizard.NewEvaluator(nil)

	assert.True(t, e.Evaluate("", evalContext(t)))
	assert.True(t, e.Evaluate("   ", evalContext(t)))
}

func TestEvaluator_MalformedExpressionDefaultsToVisibleWithWarning(t *testing.T) {
	// Arrange
	var warnings []string
	e := wizard.NewEvaluator(func(msg string) { warnings = append(warnings, msg) })

	// Act
	visible := e.Evaluate("task.type == ", evalContext(t))

	// Assert - a broken expression must never hide a step
	assert.True(t, visible)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "task.type ==")
}

func TestEvaluator_UnknownVariableDefaultsToVisibleWithWarning(t *testing.T) {
	var warnings []string
	e := wizard.NewEvaluator(func(msg string) { warnings = append(warnings, msg) })

	assert.True(t, e.Evaluate("warehouse.zone == 'COLD'", evalContext(t)))
	assert.Len(t, warnings, 1)
}

func TestEvaluator_Comparisons(t *testing.T) {
	e := wizard.NewEvaluator(nil)
	ctx := evalContext(t)

	cases := []struct {
		expression string
		expected   bool
	}{
		{`task.type == "RECEIPT"`, true},
		{`task.type == "PICKING"`, false},
		{`task.type != "PICKING"`, true},
		{`action.template == 'receipt-basic'`, true},
		{`planned.product`, true},
		{`planned.pallet`, false},
		{`planned.quantity == 10`, true},
		{`not planned.bin`, false},
		{`task.type == "RECEIPT" and planned.product`, true},
		{`task.type == "PICKING" or planned.product`, true},
		{`(task.type == "PICKING" or planned.product) and planned.bin`, true},
		{`true`, true},
		{`false`, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, e.Evaluate(tc.expression, ctx), "expression: %s", tc.expression)
	}
}

func TestEvaluator_StepVariables(t *testing.T) {
	// Arrange - resolve the product step, leave quantity open
	m := newTestMachine(t)
	s := initialized(t, m, threeSteps())
	s, err := m.Apply(s, wizard.SetObjectEvent{StepID: "product", Value: productValue(t, wizard.FieldTaskProduct)})
	require.NoError(t, err)

	e := wizard.NewEvaluator(nil)
	ctx := m.Context(s)

	// Act / Assert
	assert.True(t, e.Evaluate("step.product.resolved", ctx))
	assert.False(t, e.Evaluate("step.quantity.resolved", ctx))
	assert.True(t, e.Evaluate(`step.product.value == "ART-100"`, ctx))
	assert.False(t, e.Evaluate("step.product.error", ctx))
}

func TestEvaluator_NonBooleanResultDefaultsToVisible(t *testing.T) {
	var warnings []string
	e := wizard.NewEvaluator(func(msg string) { warnings = append(warnings, msg) })

	// A bare string is not a predicate
	assert.True(t, e.Evaluate(`task.type`, evalContext(t)))
	assert.Len(t, warnings, 1)
}

func TestEvaluator_VisibleIndexNavigation(t *testing.T) {
	// Arrange - middle step hidden
	planned := task.PlannedReference{Bin: storage.MustNewBin("B-02")}
	m := wizard.NewMachine(nil, planned, "MOVEMENT", "move-basic")
	steps := []wizard.StepTemplate{
		{ID: "from", Field: wizard.FieldStorageBin},
		{ID: "pallet", Field: wizard.FieldStoragePallet, Visibility: "planned.pallet"},
		{ID: "to", Field: wizard.FieldPlacementBin},
	}
	s, err := m.Apply(wizard.NewState(), wizard.InitializeEvent{TaskID: "t", ActionID: "a", Steps: steps})
	require.NoError(t, err)

	e := wizard.NewEvaluator(nil)
	ctx := m.Context(s)

	// Act / Assert
	assert.Equal(t, 0, e.FirstVisibleIndex(ctx))
	assert.Equal(t, 2, e.NextVisibleIndex(ctx, 0))
	assert.Equal(t, 3, e.NextVisibleIndex(ctx, 2))
	assert.Equal(t, 0, e.PreviousVisibleIndex(ctx, 2))
	assert.Equal(t, -1, e.PreviousVisibleIndex(ctx, 0))
}

func TestParseExpression_RejectsMalformedInput(t *testing.T) {
	cases := []string{
		"task.type ==",
		"== 'RECEIPT'",
		"task.type = 'RECEIPT'",
		"(planned.product",
		"planned.product and",
		"task.type == 'unterminated",
	}

	for _, input := range cases {
		_, err := wizard.ParseExpression(input)
		assert.Error(t, err, "input: %s", input)
	}
}

func TestEvaluator_QuantityComparesNumerically(t *testing.T) {
	e := wizard.NewEvaluator(nil)

	planned := task.PlannedReference{Quantity: shared.MustNewQuantity(2.5), HasQuantity: true}
	m := wizard.NewMachine(nil, planned, "RECEIPT", "tpl")
	s, err := m.Apply(wizard.NewState(), wizard.InitializeEvent{TaskID: "t", ActionID: "a", Steps: threeSteps()})
	require.NoError(t, err)

	assert.True(t, e.Evaluate("planned.quantity == 2.5", m.Context(s)))
	assert.False(t, e.Evaluate("planned.quantity == 3", m.Context(s)))
}
