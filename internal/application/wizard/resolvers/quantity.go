package resolvers

import (
	"context"

	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// QuantityResolver resolves manually entered amounts.
//
// Quantity has looser plan semantics than the identity fields: collecting
// more than planned is normally allowed and merely flagged on the fact
// record ("plan exceeded"); it becomes a hard validation failure only on
// tasks that forbid over-collection.
type QuantityResolver struct {
	facade         *validation.Facade
	forbidOverPlan bool
}

// NewQuantityResolver creates the resolver for quantity steps
func NewQuantityResolver(facade *validation.Facade, forbidOverPlan bool) *QuantityResolver {
	return &QuantityResolver{facade: facade, forbidOverPlan: forbidOverPlan}
}

// FieldType returns the field type this resolver serves
func (r *QuantityResolver) FieldType() wizard.FieldType {
	return wizard.FieldQuantity
}

// ResolveFromCode parses a typed amount
func (r *QuantityResolver) ResolveFromCode(ctx context.Context, code string, planned task.PlannedReference) (wizard.Value, error) {
	quantity, err := shared.ParseQuantity(code)
	if err != nil {
		return nil, shared.NewInvalidFormatError(code, err.Error())
	}
	return wizard.QuantityValue{Quantity: quantity}, nil
}

// MatchesPlanned reports whether the entered amount equals the plan
func (r *QuantityResolver) MatchesPlanned(code string, planned task.PlannedReference) bool {
	if !planned.HasQuantity {
		return false
	}
	quantity, err := shared.ParseQuantity(code)
	if err != nil {
		return false
	}
	return quantity.Equals(planned.Quantity)
}

// Validate applies declarative numeric rules, then the over-plan policy
func (r *QuantityResolver) Validate(value wizard.Value, planned task.PlannedReference, rules *wizard.RuleSet) validation.Outcome {
	qv, ok := value.(wizard.QuantityValue)
	if !ok {
		return validation.Fail("no quantity resolved")
	}

	if outcome := r.facade.ApplyNumber(qv.Quantity.Amount(), true, rules); !outcome.Valid {
		return outcome
	}

	if r.forbidOverPlan && planned.HasQuantity && qv.Quantity.GreaterThan(planned.Quantity) {
		mismatch := shared.NewPlanMismatchError("quantity", planned.Quantity.String(), qv.Quantity.String())
		return validation.Fail(mismatch.Message)
	}
	return validation.OK()
}

// ExceedsPlan reports whether a validated quantity went over the plan.
// The session service sets the fact record's plan-exceeded flag from this.
func (r *QuantityResolver) ExceedsPlan(value wizard.Value, planned task.PlannedReference) bool {
	qv, ok := value.(wizard.QuantityValue)
	if !ok || !planned.HasQuantity {
		return false
	}
	return qv.Quantity.GreaterThan(planned.Quantity)
}
