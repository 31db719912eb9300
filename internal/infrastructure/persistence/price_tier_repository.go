package persistence

import (
	"context"

	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceTierRepository implements pricing.TierRepository using GORM
type GormPriceTierRepository struct {
	db *gorm.DB
}

// NewGormPriceTierRepository creates a new GormPriceTierRepository
func NewGormPriceTierRepository(db *gorm.DB) *GormPriceTierRepository {
	return &GormPriceTierRepository{db: db}
}

// FindBySet returns the tiers of one product in one price list ordered by MinQty
func (r *GormPriceTierRepository) FindBySet(ctx context.Context, key pricing.TierSetKey) ([]pricing.PriceTier, error) {
	var rows []models.PriceTierModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND price_list_id = ?", key.ProductID, key.PriceListID).
		Order("min_qty ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return pricing.SortTiers(tiersToDomain(rows)), nil
}

// FindAll returns every tier grouped by product and price list
func (r *GormPriceTierRepository) FindAll(ctx context.Context) ([]pricing.PriceTier, error) {
	var rows []models.PriceTierModel
	if err := r.db.WithContext(ctx).
		Order("product_id ASC, price_list_id ASC, min_qty ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return tiersToDomain(rows), nil
}

// Save creates or updates a tier
func (r *GormPriceTierRepository) Save(ctx context.Context, tier *pricing.PriceTier) error {
	if tier.ID == uuid.Nil {
		tier.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(models.PriceTierModelFromDomain(tier)).Error
}

// Delete deletes a tier, reporting whether it existed
func (r *GormPriceTierRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PriceTierModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func tiersToDomain(rows []models.PriceTierModel) []pricing.PriceTier {
	out := make([]pricing.PriceTier, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ pricing.TierRepository = (*GormPriceTierRepository)(nil)
