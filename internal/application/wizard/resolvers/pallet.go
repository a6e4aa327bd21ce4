package resolvers

import (
	"context"
	"strings"

	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// PalletResolver resolves storage and placement pallets. Pure parsing,
// like bins; SSCC structure is checked, existence is not.
type PalletResolver struct {
	field  wizard.FieldType
	facade *validation.Facade
}

// NewStoragePalletResolver creates the resolver for source pallets
func NewStoragePalletResolver(facade *validation.Facade) *PalletResolver {
	return &PalletResolver{field: wizard.FieldStoragePallet, facade: facade}
}

// NewPlacementPalletResolver creates the resolver for target pallets
func NewPlacementPalletResolver(facade *validation.Facade) *PalletResolver {
	return &PalletResolver{field: wizard.FieldPlacementPallet, facade: facade}
}

// FieldType returns the field type this resolver serves
func (r *PalletResolver) FieldType() wizard.FieldType {
	return r.field
}

// ResolveFromCode parses a pallet label
func (r *PalletResolver) ResolveFromCode(ctx context.Context, code string, planned task.PlannedReference) (wizard.Value, error) {
	pallet, err := storage.NewPallet(code)
	if err != nil {
		return nil, err
	}
	return wizard.PalletValue{Field: r.field, Pallet: pallet}, nil
}

func (r *PalletResolver) plannedPallet(planned task.PlannedReference) storage.Pallet {
	if r.field == wizard.FieldPlacementPallet {
		return planned.PlacementPallet
	}
	return planned.Pallet
}

// MatchesPlanned compares the normalized code against the planned pallet
func (r *PalletResolver) MatchesPlanned(code string, planned task.PlannedReference) bool {
	expected := r.plannedPallet(planned)
	if expected.IsZero() {
		return false
	}
	return strings.ToUpper(strings.TrimSpace(code)) == expected.Code()
}

// Validate applies declarative rules, then plan exactness
func (r *PalletResolver) Validate(value wizard.Value, planned task.PlannedReference, rules *wizard.RuleSet) validation.Outcome {
	pv, ok := value.(wizard.PalletValue)
	if !ok || pv.Pallet.IsZero() {
		return validation.Fail("no pallet resolved")
	}

	if outcome := r.facade.ApplyString(pv.Pallet.Code(), rules); !outcome.Valid {
		return outcome
	}

	expected := r.plannedPallet(planned)
	if !expected.IsZero() && !pv.Pallet.Equals(expected) {
		mismatch := shared.NewPlanMismatchError("pallet", expected.Code(), pv.Pallet.Code())
		return validation.Fail(mismatch.Message)
	}
	return validation.OK()
}
