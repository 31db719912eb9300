package catalog

import (
	"github.com/erp/uom/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to register a product
type CreateProductRequest struct {
	Code     string `json:"code" yaml:"code" binding:"required,min=1,max=50"`
	Name     string `json:"name" yaml:"name" binding:"required,min=1,max=200"`
	BaseUnit string `json:"base_unit" yaml:"base_unit" binding:"required,unitcode"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	BaseUnit string    `json:"base_unit"`
}

// UpsertPackagingRequest declares "1 {UOM} = {UnitsPer} {BaseUOM}" for a product
type UpsertPackagingRequest struct {
	UOM      string          `json:"uom" yaml:"uom" binding:"required,unitcode"`
	UnitsPer decimal.Decimal `json:"units_per" yaml:"units_per"`
	BaseUOM  string          `json:"base_uom" yaml:"base_uom" binding:"required,unitcode"`
}

// PackagingResponse represents a packaging row in API responses
type PackagingResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	UOM         string          `json:"uom"`
	UnitsPer    decimal.Decimal `json:"units_per"`
	BaseUOM     string          `json:"base_uom"`
	Description string          `json:"description"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Code:     p.Code,
		Name:     p.Name,
		BaseUnit: p.BaseUnit.String(),
	}
}

// ToPackagingResponse converts a domain packaging row
func ToPackagingResponse(row *catalog.PackagingConversion) PackagingResponse {
	return PackagingResponse{
		ID:          row.ID,
		ProductID:   row.ProductID,
		UOM:         row.UOM.String(),
		UnitsPer:    row.UnitsPer,
		BaseUOM:     row.BaseUOM.String(),
		Description: row.Describe(),
	}
}
