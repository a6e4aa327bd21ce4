package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warelog/handheld-go/internal/domain/wizard"
)

func TestActionTemplate_ValidateRejectsBrokenTemplates(t *testing.T) {
	cases := []struct {
		name     string
		template wizard.ActionTemplate
	}{
		{
			name:     "empty code",
			template: wizard.ActionTemplate{Steps: threeSteps()},
		},
		{
			name:     "no steps",
			template: wizard.ActionTemplate{Code: "tpl"},
		},
		{
			name: "blank step id",
			template: wizard.ActionTemplate{Code: "tpl", Steps: []wizard.StepTemplate{
				{Field: wizard.FieldQuantity},
			}},
		},
		{
			name: "duplicate step id",
			template: wizard.ActionTemplate{Code: "tpl", Steps: []wizard.StepTemplate{
				{ID: "q", Field: wizard.FieldQuantity},
				{ID: "q", Field: wizard.FieldStorageBin},
			}},
		},
		{
			name: "unknown field type",
			template: wizard.ActionTemplate{Code: "tpl", Steps: []wizard.StepTemplate{
				{ID: "x", Field: wizard.FieldType("SERIAL_NUMBER")},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.template.Validate())
		})
	}
}

func TestActionTemplate_ValidTemplatePassesWithoutWarnings(t *testing.T) {
	template := wizard.ActionTemplate{Code: "receipt-basic", Steps: threeSteps()}

	assert.NoError(t, template.Validate())
	assert.Empty(t, template.Lint())
}

func TestActionTemplate_LintFlagsMismatchedRuleKinds(t *testing.T) {
	template := wizard.ActionTemplate{Code: "tpl", Steps: []wizard.StepTemplate{
		{
			ID:    "quantity",
			Field: wizard.FieldQuantity,
			Rules: &wizard.RuleSet{
				Min:    wizard.Float64Ptr(1),
				MinLen: wizard.IntPtr(3),
			},
		},
	}}

	assert.NoError(t, template.Validate())
	warnings := template.Lint()
	assert.NotEmpty(t, warnings)
}

func TestActionTemplate_LintFlagsMalformedVisibility(t *testing.T) {
	template := wizard.ActionTemplate{Code: "tpl", Steps: []wizard.StepTemplate{
		{ID: "bin", Field: wizard.FieldStorageBin, Visibility: "task.type =="},
	}}

	warnings := template.Lint()
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "defaults to visible")
}

func TestStepTemplate_CaptureExtraNeverAutoAdvances(t *testing.T) {
	step := wizard.StepTemplate{
		ID:           "product",
		Field:        wizard.FieldTaskProduct,
		AutoAdvance:  true,
		CaptureExtra: true,
	}

	assert.False(t, step.AllowsAutoAdvance())
}
