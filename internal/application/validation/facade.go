package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// Outcome is the result of applying a declarative rule set
type Outcome struct {
	Valid   bool
	Message string
}

// OK returns a passing outcome
func OK() Outcome {
	return Outcome{Valid: true}
}

// Fail returns a failing outcome with a user-facing message
func Fail(message string) Outcome {
	return Outcome{Valid: false, Message: message}
}

// Facade applies declarative rule sets independent of object type.
//
// Rules are checked fail-fast in a fixed order (required, bounds,
// pattern); the first failing rule's message is returned and later rules
// are not evaluated. Numeric bounds apply only to numeric inputs and
// length bounds only to string inputs: the caller picks the entry point
// matching the step's field type, which is how the "both bound kinds
// declared" authoring error stays harmless at runtime.
type Facade struct {
	validate *validator.Validate

	// compiled pattern cache; templates carry few distinct patterns
	patterns map[string]*regexp.Regexp
}

// NewFacade creates a validation facade
func NewFacade() *Facade {
	return &Facade{
		validate: validator.New(),
		patterns: make(map[string]*regexp.Regexp),
	}
}

// ApplyString validates a string input (codes, identifiers) against the
// rule set. Length bounds and pattern apply; numeric bounds are ignored.
func (f *Facade) ApplyString(value string, rules *wizard.RuleSet) Outcome {
	if rules.IsEmpty() {
		return OK()
	}

	if rules.Required {
		if err := f.validate.Var(strings.TrimSpace(value), "required"); err != nil {
			return f.fail(rules, "a value is required")
		}
	}

	if rules.MinLen != nil {
		if err := f.validate.Var(value, fmt.Sprintf("min=%d", *rules.MinLen)); err != nil {
			return f.fail(rules, fmt.Sprintf("must be at least %d characters", *rules.MinLen))
		}
	}
	if rules.MaxLen != nil {
		if err := f.validate.Var(value, fmt.Sprintf("max=%d", *rules.MaxLen)); err != nil {
			return f.fail(rules, fmt.Sprintf("must be at most %d characters", *rules.MaxLen))
		}
	}

	if rules.Pattern != "" {
		re, err := f.compiledPattern(rules.Pattern)
		if err != nil {
			// Malformed pattern is an authoring error; reported by Lint,
			// tolerated here
			return OK()
		}
		if !re.MatchString(value) {
			return f.fail(rules, "has an invalid format")
		}
	}

	return OK()
}

// ApplyNumber validates a numeric input (quantities) against the rule
// set. Numeric bounds apply; length bounds and pattern are ignored.
func (f *Facade) ApplyNumber(value float64, present bool, rules *wizard.RuleSet) Outcome {
	if rules.IsEmpty() {
		return OK()
	}

	if rules.Required && !present {
		return f.fail(rules, "a value is required")
	}
	if !present {
		return OK()
	}

	if rules.Min != nil {
		if err := f.validate.Var(value, fmt.Sprintf("min=%v", *rules.Min)); err != nil {
			return f.fail(rules, fmt.Sprintf("must be at least %v", *rules.Min))
		}
	}
	if rules.Max != nil {
		if err := f.validate.Var(value, fmt.Sprintf("max=%v", *rules.Max)); err != nil {
			return f.fail(rules, fmt.Sprintf("must be at most %v", *rules.Max))
		}
	}

	return OK()
}

func (f *Facade) compiledPattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := f.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	f.patterns[pattern] = re
	return re, nil
}

// fail applies the rule set's custom message override, if any
func (f *Facade) fail(rules *wizard.RuleSet, message string) Outcome {
	if rules.Message != "" {
		return Fail(rules.Message)
	}
	return Fail(message)
}
