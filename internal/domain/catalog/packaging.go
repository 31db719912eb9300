package catalog

import (
	"fmt"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackagingConversion declares how many base units one pack of a product
// holds, e.g. 1 CTN = 24 EA. It is owned by the product subsystem; the engine
// only reads it.
type PackagingConversion struct {
	ID        uuid.UUID            `json:"id"`
	ProductID uuid.UUID            `json:"product_id"`
	UOM       valueobject.UnitCode `json:"uom"`
	UnitsPer  decimal.Decimal      `json:"units_per"`
	BaseUOM   valueobject.UnitCode `json:"base_uom"`
}

// NewPackagingConversion creates a packaging row. Only the local invariants
// are enforced here; whether BaseUOM exists is checked by ValidatePackaging.
func NewPackagingConversion(productID uuid.UUID, uom valueobject.UnitCode, unitsPer decimal.Decimal, baseUOM valueobject.UnitCode) (*PackagingConversion, error) {
	if uom.IsZero() || baseUOM.IsZero() {
		return nil, shared.NewDomainError("INVALID_UNIT_CODE", "Packaging unit and base unit cannot be empty")
	}
	if err := validateUnitsPer(unitsPer); err != nil {
		return nil, err
	}

	return &PackagingConversion{
		ID:        uuid.New(),
		ProductID: productID,
		UOM:       uom,
		UnitsPer:  unitsPer,
		BaseUOM:   baseUOM,
	}, nil
}

// Describe renders the conversion as "1 CTN = 24 EA"
func (p PackagingConversion) Describe() string {
	return fmt.Sprintf("1 %s = %s %s", p.UOM, p.UnitsPer.String(), p.BaseUOM)
}

// ConvertToBaseUnit converts a quantity of packs to base units
// Formula: baseQuantity = quantity * unitsPer
func (p PackagingConversion) ConvertToBaseUnit(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(p.UnitsPer)
}

// ConvertFromBaseUnit converts a quantity of base units to packs
// Formula: packQuantity = baseQuantity / unitsPer
func (p PackagingConversion) ConvertFromBaseUnit(baseQuantity decimal.Decimal) decimal.Decimal {
	if !p.UnitsPer.IsPositive() {
		return decimal.Zero
	}
	return baseQuantity.Div(p.UnitsPer)
}

func validateUnitsPer(unitsPer decimal.Decimal) error {
	if unitsPer.IsNegative() {
		return shared.NewDomainError("INVALID_CONVERSION_RATE", "Units per pack cannot be negative")
	}
	if unitsPer.IsZero() {
		return shared.NewDomainError("INVALID_CONVERSION_RATE", "Units per pack cannot be zero")
	}
	return nil
}
