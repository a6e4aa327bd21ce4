package wizard

import (
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
)

// Value is the sealed union of things a step can resolve to. Each variant
// carries the field type it was resolved for, so the state machine can
// enforce that a stored result always matches its template's declared type.
type Value interface {
	// Kind returns the field type this value was resolved for
	Kind() FieldType

	// Identity returns the stable identifier used for plan matching and
	// expression evaluation
	Identity() string

	// String returns a human-readable representation for messages
	String() string

	sealed()
}

// ProductValue is a resolved catalog or task-scoped product
type ProductValue struct {
	Field   FieldType
	Product *catalog.Product

	// Weight carries the quantity embedded in a scale label, when the
	// scan was a weight barcode. Zero otherwise.
	Weight shared.Quantity
}

func (v ProductValue) Kind() FieldType { return v.Field }

func (v ProductValue) Identity() string {
	if v.Product == nil {
		return ""
	}
	return v.Product.Identity()
}

func (v ProductValue) String() string {
	if v.Product == nil {
		return "<no product>"
	}
	return v.Product.String()
}

func (ProductValue) sealed() {}

// BinValue is a resolved storage or placement bin
type BinValue struct {
	Field FieldType
	Bin   storage.Bin
}

func (v BinValue) Kind() FieldType  { return v.Field }
func (v BinValue) Identity() string { return v.Bin.Code() }
func (v BinValue) String() string   { return v.Bin.String() }
func (BinValue) sealed()            {}

// PalletValue is a resolved storage or placement pallet
type PalletValue struct {
	Field  FieldType
	Pallet storage.Pallet
}

func (v PalletValue) Kind() FieldType  { return v.Field }
func (v PalletValue) Identity() string { return v.Pallet.Code() }
func (v PalletValue) String() string   { return v.Pallet.String() }
func (PalletValue) sealed()            {}

// QuantityValue is an entered or scale-derived amount
type QuantityValue struct {
	Quantity shared.Quantity
}

func (v QuantityValue) Kind() FieldType  { return FieldQuantity }
func (v QuantityValue) Identity() string { return v.Quantity.String() }
func (v QuantityValue) String() string   { return v.Quantity.String() }
func (QuantityValue) sealed()            {}
