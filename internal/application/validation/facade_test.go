package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

func TestFacade_EmptyRuleSetAlwaysPasses(t *testing.T) {
	f := validation.NewFacade()

	assert.True(t, f.ApplyString("anything", nil).Valid)
	assert.True(t, f.ApplyString("", &wizard.RuleSet{}).Valid)
	assert.True(t, f.ApplyNumber(0, false, nil).Valid)
}

func TestFacade_RequiredString(t *testing.T) {
	f := validation.NewFacade()
	rules := &wizard.RuleSet{Required: true}

	assert.True(t, f.ApplyString("A-01", rules).Valid)

	outcome := f.ApplyString("   ", rules)
	assert.False(t, outcome.Valid)
	assert.Equal(t, "a value is required", outcome.Message)
}

func TestFacade_LengthBoundsFailFast(t *testing.T) {
	f := validation.NewFacade()
	rules := &wizard.RuleSet{
		Required: true,
		MinLen:   wizard.IntPtr(4),
		MaxLen:   wizard.IntPtr(8),
	}

	assert.True(t, f.ApplyString("ABCD", rules).Valid)
	assert.False(t, f.ApplyString("ABC", rules).Valid)
	assert.False(t, f.ApplyString("ABCDEFGHI", rules).Valid)

	// Required fires before the length bound
	outcome := f.ApplyString("", rules)
	assert.Equal(t, "a value is required", outcome.Message)
}

func TestFacade_Pattern(t *testing.T) {
	f := validation.NewFacade()
	rules := &wizard.RuleSet{Pattern: `^[A-Z]-\d{2}$`}

	assert.True(t, f.ApplyString("A-01", rules).Valid)

	outcome := f.ApplyString("A01", rules)
	assert.False(t, outcome.Valid)
	assert.Equal(t, "has an invalid format", outcome.Message)
}

func TestFacade_MalformedPatternIsTolerated(t *testing.T) {
	f := validation.NewFacade()
	rules := &wizard.RuleSet{Pattern: `([unclosed`}

	// Authoring error: Lint reports it, runtime stays permissive
	assert.True(t, f.ApplyString("anything", rules).Valid)
}

func TestFacade_NumericBounds(t *testing.T) {
	f := validation.NewFacade()
	rules := &wizard.RuleSet{
		Min: wizard.Float64Ptr(0.5),
		Max: wizard.Float64Ptr(100),
	}

	assert.True(t, f.ApplyNumber(0.5, true, rules).Valid)
	assert.True(t, f.ApplyNumber(100, true, rules).Valid)
	assert.False(t, f.ApplyNumber(0.25, true, rules).Valid)
	assert.False(t, f.ApplyNumber(100.5, true, rules).Valid)
}

func TestFacade_RequiredNumberAbsent(t *testing.T) {
	f := validation.NewFacade()

	outcome := f.ApplyNumber(0, false, &wizard.RuleSet{Required: true})
	assert.False(t, outcome.Valid)

	// Absent but optional: bounds do not fire
	assert.True(t, f.ApplyNumber(0, false, &wizard.RuleSet{Min: wizard.Float64Ptr(5)}).Valid)
}

func TestFacade_CustomMessageOverridesGenerated(t *testing.T) {
	f := validation.NewFacade()
	rules := &wizard.RuleSet{
		MinLen:  wizard.IntPtr(18),
		Message: "scan the full SSCC label",
	}

	outcome := f.ApplyString("PAL-1", rules)
	assert.False(t, outcome.Valid)
	assert.Equal(t, "scan the full SSCC label", outcome.Message)
}
