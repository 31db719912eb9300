package persistence

import (
	"context"
	"errors"

	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every product ordered by code
func (r *GormProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("code ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormPackagingRepository implements catalog.PackagingRepository using GORM
type GormPackagingRepository struct {
	db *gorm.DB
}

// NewGormPackagingRepository creates a new GormPackagingRepository
func NewGormPackagingRepository(db *gorm.DB) *GormPackagingRepository {
	return &GormPackagingRepository{db: db}
}

// FindByProductID returns the packaging rows of a product ordered by unit code
func (r *GormPackagingRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]catalog.PackagingConversion, error) {
	var rows []models.PackagingModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("uom ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return packagingToDomain(rows), nil
}

// FindAll returns every packaging row
func (r *GormPackagingRepository) FindAll(ctx context.Context) ([]catalog.PackagingConversion, error) {
	var rows []models.PackagingModel
	if err := r.db.WithContext(ctx).Order("product_id ASC, uom ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return packagingToDomain(rows), nil
}

// Save creates or replaces the row with the same product and unit
func (r *GormPackagingRepository) Save(ctx context.Context, row *catalog.PackagingConversion) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "uom"}},
		DoUpdates: clause.AssignmentColumns([]string{"units_per", "base_uom", "updated_at"}),
	}).Create(models.PackagingModelFromDomain(row)).Error
}

// Delete deletes the row for a product and unit, reporting whether it existed
func (r *GormPackagingRepository) Delete(ctx context.Context, productID uuid.UUID, unit string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND uom = ?", productID, unit).
		Delete(&models.PackagingModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func packagingToDomain(rows []models.PackagingModel) []catalog.PackagingConversion {
	out := make([]catalog.PackagingConversion, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var (
	_ catalog.ProductRepository   = (*GormProductRepository)(nil)
	_ catalog.PackagingRepository = (*GormPackagingRepository)(nil)
)
