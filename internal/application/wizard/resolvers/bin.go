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

// BinResolver resolves storage and placement bins. Pure parsing: bin
// existence is the server's concern and checked at submission.
type BinResolver struct {
	field  wizard.FieldType
	facade *validation.Facade
}

// NewStorageBinResolver creates the resolver for source bins
func NewStorageBinResolver(facade *validation.Facade) *BinResolver {
	return &BinResolver{field: wizard.FieldStorageBin, facade: facade}
}

// NewPlacementBinResolver creates the resolver for target bins
func NewPlacementBinResolver(facade *validation.Facade) *BinResolver {
	return &BinResolver{field: wizard.FieldPlacementBin, facade: facade}
}

// FieldType returns the field type this resolver serves
func (r *BinResolver) FieldType() wizard.FieldType {
	return r.field
}

// ResolveFromCode parses a bin label
func (r *BinResolver) ResolveFromCode(ctx context.Context, code string, planned task.PlannedReference) (wizard.Value, error) {
	bin, err := storage.NewBin(code)
	if err != nil {
		return nil, err
	}
	return wizard.BinValue{Field: r.field, Bin: bin}, nil
}

// plannedBin selects the plan slot matching this resolver's direction
func (r *BinResolver) plannedBin(planned task.PlannedReference) storage.Bin {
	if r.field == wizard.FieldPlacementBin {
		return planned.PlacementBin
	}
	return planned.Bin
}

// MatchesPlanned compares the normalized code against the planned bin
func (r *BinResolver) MatchesPlanned(code string, planned task.PlannedReference) bool {
	expected := r.plannedBin(planned)
	if expected.IsZero() {
		return false
	}
	return strings.ToUpper(strings.TrimSpace(code)) == expected.Code()
}

// Validate applies declarative rules, then plan exactness
func (r *BinResolver) Validate(value wizard.Value, planned task.PlannedReference, rules *wizard.RuleSet) validation.Outcome {
	bv, ok := value.(wizard.BinValue)
	if !ok || bv.Bin.IsZero() {
		return validation.Fail("no bin resolved")
	}

	if outcome := r.facade.ApplyString(bv.Bin.Code(), rules); !outcome.Valid {
		return outcome
	}

	expected := r.plannedBin(planned)
	if !expected.IsZero() && !bv.Bin.Equals(expected) {
		mismatch := shared.NewPlanMismatchError("bin", expected.Code(), bv.Bin.Code())
		return validation.Fail(mismatch.Message)
	}
	return validation.OK()
}
