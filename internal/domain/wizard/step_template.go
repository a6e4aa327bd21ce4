package wizard

import (
	"fmt"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// StepTemplate is the declarative definition of one wizard step.
//
// Templates are created when an action template is loaded and never
// mutated afterwards; the state machine only reads them.
type StepTemplate struct {
	// ID is unique within one action template
	ID string

	// Field is the domain-object category this step collects
	Field FieldType

	// Required steps cannot be advanced past without a resolved value
	Required bool

	// Rules is the optional declarative validation set
	Rules *RuleSet

	// Visibility is an optional predicate over wizard state; blank means
	// always visible
	Visibility string

	// CaptureExtra marks steps that must also capture additional
	// properties (expiry date, product status). Such steps never
	// auto-advance: the worker confirms manually.
	CaptureExtra bool

	// AutoAdvance lets a successful resolution advance the wizard without
	// an explicit confirm. Opt-in per step, never global.
	AutoAdvance bool
}

// AllowsAutoAdvance reports whether the step may advance without manual
// confirmation. Steps capturing extra properties always require it.
func (s StepTemplate) AllowsAutoAdvance() bool {
	return s.AutoAdvance && !s.CaptureExtra
}

// ActionTemplate is the ordered step list for one action template code
type ActionTemplate struct {
	Code  string
	Steps []StepTemplate
}

// Validate checks structural integrity: non-empty ids, unique ids, known
// field types. These are configuration errors and fail the template load.
func (t ActionTemplate) Validate() error {
	if t.Code == "" {
		return shared.NewConfigurationError("action template code cannot be empty")
	}
	if len(t.Steps) == 0 {
		return shared.NewConfigurationError(fmt.Sprintf("action template %q has no steps", t.Code))
	}

	seen := make(map[string]bool, len(t.Steps))
	for i, step := range t.Steps {
		if step.ID == "" {
			return shared.NewConfigurationError(
				fmt.Sprintf("action template %q: step %d has no id", t.Code, i))
		}
		if seen[step.ID] {
			return shared.NewConfigurationError(
				fmt.Sprintf("action template %q: duplicate step id %q", t.Code, step.ID))
		}
		seen[step.ID] = true
		if !step.Field.IsValid() {
			return shared.NewConfigurationError(
				fmt.Sprintf("action template %q: step %q has unknown field type %q",
					t.Code, step.ID, step.Field))
		}
	}
	return nil
}

// Lint reports authoring mistakes that the runtime tolerates: conflicting
// bound kinds and unparseable visibility expressions. The permissive
// runtime behavior (apply matching bounds, default visible) is kept; Lint
// exists so template authors can see the problem before a device does.
func (t ActionTemplate) Lint() []string {
	var warnings []string
	for _, step := range t.Steps {
		if step.Rules.HasNumericBounds() && step.Rules.HasLengthBounds() {
			warnings = append(warnings, fmt.Sprintf(
				"step %q declares both numeric and length bounds; only the kind matching field type %s is applied",
				step.ID, step.Field))
		}
		if step.Rules.HasNumericBounds() && !step.Field.IsNumeric() {
			warnings = append(warnings, fmt.Sprintf(
				"step %q declares numeric bounds on non-numeric field type %s; they are ignored",
				step.ID, step.Field))
		}
		if step.Rules.HasLengthBounds() && step.Field.IsNumeric() {
			warnings = append(warnings, fmt.Sprintf(
				"step %q declares length bounds on numeric field type %s; they are ignored",
				step.ID, step.Field))
		}
		if step.Visibility != "" {
			if _, err := ParseExpression(step.Visibility); err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"step %q has malformed visibility expression %q: %v (step defaults to visible)",
					step.ID, step.Visibility, err))
			}
		}
	}
	return warnings
}
