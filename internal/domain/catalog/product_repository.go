package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns every product ordered by code
	FindAll(ctx context.Context) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// PackagingRepository defines the interface for packaging conversion persistence.
// Rows are keyed by (ProductID, UOM).
type PackagingRepository interface {
	// FindByProductID returns the packaging rows of a product ordered by unit code
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]PackagingConversion, error)

	// FindAll returns every packaging row
	FindAll(ctx context.Context) ([]PackagingConversion, error)

	// Save creates or replaces the row with the same product and unit
	Save(ctx context.Context, row *PackagingConversion) error

	// Delete deletes the row for a product and unit, reporting whether it existed
	Delete(ctx context.Context, productID uuid.UUID, uom string) (bool, error)
}
