package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductLookup over the local
// product cache. The catalog is synced from the server; lookups never go
// to the network.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByBarcode retrieves the product carrying the given barcode.
// Returns nil when no product matches; absence is not an error here.
func (r *GormProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	var mapping ProductBarcodeModel
	result := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&mapping)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up barcode: %w", result.Error)
	}
	return findProductByArticle(r.db.WithContext(ctx), mapping.Article)
}

// FindByArticle retrieves a product by its article number.
// Returns nil when no product matches.
func (r *GormProductRepository) FindByArticle(ctx context.Context, article string) (*catalog.Product, error) {
	product, err := findProductByArticle(r.db.WithContext(ctx), article)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Upsert stores a product and rebuilds its barcode index entries
func (r *GormProductRepository) Upsert(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := productToModel(product)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error; err != nil {
			return fmt.Errorf("failed to save product: %w", err)
		}

		if err := tx.Where("article = ?", product.Article).Delete(&ProductBarcodeModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear barcode index: %w", err)
		}
		for _, barcode := range product.Barcodes {
			mapping := &ProductBarcodeModel{Barcode: barcode, Article: product.Article}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(mapping).Error; err != nil {
				return fmt.Errorf("failed to index barcode %s: %w", barcode, err)
			}
		}
		return nil
	})
}

// findProductByArticle is shared with the task repository, which resolves
// planned and recorded articles through the same cache
func findProductByArticle(db *gorm.DB, article string) (*catalog.Product, error) {
	var model ProductModel
	result := db.Where("article = ?", article).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}
	return productModelToEntity(&model)
}

func productModelToEntity(model *ProductModel) (*catalog.Product, error) {
	var barcodes []string
	if model.Barcodes != "" {
		if err := json.Unmarshal([]byte(model.Barcodes), &barcodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal barcodes for %s: %w", model.Article, err)
		}
	}

	product, err := catalog.NewProduct(model.Article, model.Name, barcodes)
	if err != nil {
		return nil, err
	}
	product.UnitName = model.UnitName
	product.UnitFactor = shared.MustNewQuantity(model.UnitFactor)
	product.RequiresExpiry = model.RequiresExpiry
	product.IsWeighed = model.IsWeighed
	return product, nil
}

func productToModel(product *catalog.Product) (*ProductModel, error) {
	barcodes, err := json.Marshal(product.Barcodes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal barcodes: %w", err)
	}
	return &ProductModel{
		Article:        product.Article,
		Name:           product.Name,
		Barcodes:       string(barcodes),
		UnitName:       product.UnitName,
		UnitFactor:     product.UnitFactor.Amount(),
		RequiresExpiry: product.RequiresExpiry,
		IsWeighed:      product.IsWeighed,
	}, nil
}
