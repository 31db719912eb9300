package models

import (
	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product view.
type ProductModel struct {
	BaseModel
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	BaseUnit string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:       m.ID,
		Code:     m.Code,
		Name:     m.Name,
		BaseUnit: valueobject.UnitCode(m.BaseUnit),
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		BaseModel: BaseModel{ID: p.ID},
		Code:      p.Code,
		Name:      p.Name,
		BaseUnit:  p.BaseUnit.String(),
	}
}

// PackagingModel is the persistence model for a packaging conversion, unique
// per (product, uom).
type PackagingModel struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_packaging_product_uom,priority:1"`
	UOM       string          `gorm:"column:uom;type:varchar(20);not null;uniqueIndex:idx_packaging_product_uom,priority:2"`
	UnitsPer  decimal.Decimal `gorm:"type:numeric;not null"`
	BaseUOM   string          `gorm:"column:base_uom;type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (PackagingModel) TableName() string {
	return "packaging_conversions"
}

// ToDomain converts the persistence model to a domain PackagingConversion.
func (m *PackagingModel) ToDomain() catalog.PackagingConversion {
	return catalog.PackagingConversion{
		ID:        m.ID,
		ProductID: m.ProductID,
		UOM:       valueobject.UnitCode(m.UOM),
		UnitsPer:  m.UnitsPer,
		BaseUOM:   valueobject.UnitCode(m.BaseUOM),
	}
}

// PackagingModelFromDomain creates a persistence model from a domain PackagingConversion.
func PackagingModelFromDomain(p *catalog.PackagingConversion) *PackagingModel {
	return &PackagingModel{
		BaseModel: BaseModel{ID: p.ID},
		ProductID: p.ProductID,
		UOM:       p.UOM.String(),
		UnitsPer:  p.UnitsPer,
		BaseUOM:   p.BaseUOM.String(),
	}
}
