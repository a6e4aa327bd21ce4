package resolvers

import (
	"context"

	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// Resolver is the per-field-type strategy converting a scanned or typed
// code into a domain value and validating it against the plan.
//
// Implementations are stateless and safe to call concurrently; scan
// replay and race handling live in the Arbiter, not here.
type Resolver interface {
	// FieldType returns the field type this resolver serves
	FieldType() wizard.FieldType

	// ResolveFromCode parses a code into a domain value. Fails with an
	// InvalidFormatError on unparseable input and a NotFoundError when a
	// catalog lookup comes up empty.
	ResolveFromCode(ctx context.Context, code string, planned task.PlannedReference) (wizard.Value, error)

	// MatchesPlanned is a cheap identity check: does this code obviously
	// denote the planned object? Used to short-circuit full resolution.
	MatchesPlanned(code string, planned task.PlannedReference) bool

	// Validate applies the declarative rules first and, when a planned
	// reference exists, the exact-identity check against the plan. Both
	// phases are mandatory; a mismatch message always names the expected
	// value.
	Validate(value wizard.Value, planned task.PlannedReference, rules *wizard.RuleSet) validation.Outcome
}
