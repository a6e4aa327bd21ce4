package wizard

// RuleSet is the declarative validation shape a step template may carry.
//
// Numeric bounds (Min/Max) apply only to numeric field types; length
// bounds (MinLen/MaxLen) apply only to non-numeric ones. Declaring both
// on one step is a template authoring error; Lint reports it, the runtime
// stays permissive and applies whichever set matches the field type.
type RuleSet struct {
	Required bool
	Min      *float64
	Max      *float64
	MinLen   *int
	MaxLen   *int
	Pattern  string

	// Message overrides the generated error text for whichever rule
	// fails first
	Message string
}

// IsEmpty reports whether the rule set constrains anything at all
func (r *RuleSet) IsEmpty() bool {
	if r == nil {
		return true
	}
	return !r.Required &&
		r.Min == nil && r.Max == nil &&
		r.MinLen == nil && r.MaxLen == nil &&
		r.Pattern == ""
}

// HasNumericBounds reports whether Min or Max is declared
func (r *RuleSet) HasNumericBounds() bool {
	return r != nil && (r.Min != nil || r.Max != nil)
}

// HasLengthBounds reports whether MinLen or MaxLen is declared
func (r *RuleSet) HasLengthBounds() bool {
	return r != nil && (r.MinLen != nil || r.MaxLen != nil)
}

// Float64Ptr is a convenience for building rule sets in templates and tests
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr is a convenience for building rule sets in templates and tests
func IntPtr(v int) *int { return &v }
