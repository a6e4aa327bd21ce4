package catalog

import (
	"strings"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// Product is a catalog item the handheld can collect facts about.
//
// A product is identified by its article number; barcodes are aliases that
// map back to the article. Weighed goods carry their quantity inside the
// barcode itself (see weight_barcode.go).
type Product struct {
	Article        string
	Name           string
	Barcodes       []string
	UnitName       string
	UnitFactor     shared.Quantity
	RequiresExpiry bool
	IsWeighed      bool
}

// NewProduct creates a new catalog product with validation
func NewProduct(article, name string, barcodes []string) (*Product, error) {
	if strings.TrimSpace(article) == "" {
		return nil, NewInvalidProductDataError("article cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, NewInvalidProductDataError("name cannot be empty")
	}

	return &Product{
		Article:    article,
		Name:       name,
		Barcodes:   barcodes,
		UnitName:   "pcs",
		UnitFactor: shared.MustNewQuantity(1),
	}, nil
}

// HasBarcode checks whether the given code is one of the product's barcodes
// or its article number
func (p *Product) HasBarcode(code string) bool {
	if code == p.Article {
		return true
	}
	for _, barcode := range p.Barcodes {
		if barcode == code {
			return true
		}
	}
	return false
}

// Identity returns the stable identifier used for plan matching
func (p *Product) Identity() string {
	return p.Article
}

// SameAs checks whether two products denote the same catalog item
func (p *Product) SameAs(other *Product) bool {
	return other != nil && p.Article == other.Article
}

// String returns a human-readable representation for error messages
func (p *Product) String() string {
	return p.Name + " (" + p.Article + ")"
}
