package models

import (
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTierModel is the persistence model for one quantity break.
type PriceTierModel struct {
	BaseModel
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_price_tier_set,priority:1"`
	PriceListID uuid.UUID        `gorm:"type:uuid;not null;index:idx_price_tier_set,priority:2"`
	MinQty      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	MaxQty      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UOM         string           `gorm:"column:uom;type:varchar(20);not null;default:''"`
}

// TableName returns the table name for GORM
func (PriceTierModel) TableName() string {
	return "price_tiers"
}

// ToDomain converts the persistence model to a domain PriceTier.
func (m *PriceTierModel) ToDomain() pricing.PriceTier {
	return pricing.PriceTier{
		ID:          m.ID,
		ProductID:   m.ProductID,
		PriceListID: m.PriceListID,
		MinQty:      m.MinQty,
		MaxQty:      m.MaxQty,
		UnitPrice:   m.UnitPrice,
		UOM:         valueobject.UnitCode(m.UOM),
	}
}

// PriceTierModelFromDomain creates a persistence model from a domain PriceTier.
func PriceTierModelFromDomain(t *pricing.PriceTier) *PriceTierModel {
	return &PriceTierModel{
		BaseModel:   BaseModel{ID: t.ID},
		ProductID:   t.ProductID,
		PriceListID: t.PriceListID,
		MinQty:      t.MinQty,
		MaxQty:      t.MaxQty,
		UnitPrice:   t.UnitPrice,
		UOM:         t.UOM.String(),
	}
}
