package wizard

// FieldType is the closed set of domain-object categories a wizard step
// can collect. Every switch over FieldType in this package and in the
// resolver set enumerates all members; adding a member means the compiler
// walks you through every site via the default-case errors.
type FieldType string

const (
	// FieldCatalogProduct collects a product resolved from the catalog
	FieldCatalogProduct FieldType = "CATALOG_PRODUCT"

	// FieldTaskProduct collects a product restricted to the task's plan
	FieldTaskProduct FieldType = "TASK_PRODUCT"

	// FieldStorageBin collects the bin goods are taken from
	FieldStorageBin FieldType = "STORAGE_BIN"

	// FieldStoragePallet collects the pallet goods are taken from
	FieldStoragePallet FieldType = "STORAGE_PALLET"

	// FieldPlacementBin collects the bin goods are placed into
	FieldPlacementBin FieldType = "PLACEMENT_BIN"

	// FieldPlacementPallet collects the pallet goods are placed onto
	FieldPlacementPallet FieldType = "PLACEMENT_PALLET"

	// FieldQuantity collects a counted or weighed amount
	FieldQuantity FieldType = "QUANTITY"
)

// AllFieldTypes returns every member of the closed set, in declaration order
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldCatalogProduct,
		FieldTaskProduct,
		FieldStorageBin,
		FieldStoragePallet,
		FieldPlacementBin,
		FieldPlacementPallet,
		FieldQuantity,
	}
}

// IsValid reports whether the value is a member of the closed set
func (f FieldType) IsValid() bool {
	switch f {
	case FieldCatalogProduct, FieldTaskProduct,
		FieldStorageBin, FieldStoragePallet,
		FieldPlacementBin, FieldPlacementPallet,
		FieldQuantity:
		return true
	}
	return false
}

// IsNumeric reports whether declarative min/max bounds apply to the field.
// Length bounds apply to all other field types.
func (f FieldType) IsNumeric() bool {
	return f == FieldQuantity
}

// IsProduct reports whether the field resolves through the catalog
func (f FieldType) IsProduct() bool {
	return f == FieldCatalogProduct || f == FieldTaskProduct
}

// String returns the wire representation of the field type
func (f FieldType) String() string {
	return string(f)
}
