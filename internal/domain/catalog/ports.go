package catalog

import "context"

// ProductLookup resolves scanned codes against the local product catalog.
// Following hexagonal architecture: the cache behind it (sqlite snapshot,
// in-memory fixture) is an adapter concern.
type ProductLookup interface {
	// FindByBarcode retrieves a product by any of its barcodes or its
	// article number. Returns nil when no product matches.
	FindByBarcode(ctx context.Context, code string) (*Product, error)

	// FindByArticle retrieves a product by article number
	FindByArticle(ctx context.Context, article string) (*Product, error)
}
