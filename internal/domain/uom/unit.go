// Package uom holds the unit-of-measure catalog, the conversion graph built
// from it, and the validator that checks both for consistency.
package uom

import (
	"fmt"
	"strings"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Category is the measurement category of a unit (count, weight, volume, ...).
// Categories are free-form; the engine never infers compatibility between them.
type Category string

// Well-known categories
const (
	CategoryCount  Category = "count"
	CategoryWeight Category = "weight"
	CategoryVolume Category = "volume"
	CategoryLength Category = "length"
	CategoryArea   Category = "area"
	CategoryTime   Category = "time"
)

// NormalizeCategory lower-cases and trims a raw category name.
func NormalizeCategory(raw string) Category {
	return Category(strings.ToLower(strings.TrimSpace(raw)))
}

// UnitDefinition is one entry of the unit catalog.
type UnitDefinition struct {
	Code     valueobject.UnitCode `json:"code"`
	Name     string               `json:"name"`
	Category Category             `json:"category"`
	IsBase   bool                 `json:"is_base"`
	// FactorToBase converts one of this unit into BaseUnit, when known statically.
	FactorToBase *decimal.Decimal    `json:"factor_to_base,omitempty"`
	BaseUnit     valueobject.UnitCode `json:"base_unit,omitempty"`
	// Decimals is the rounding precision for quantities expressed in this unit.
	Decimals int `json:"decimals"`
}

// HasFactorToBase reports whether a direct factor to BaseUnit is declared.
func (u UnitDefinition) HasFactorToBase() bool {
	return u.FactorToBase != nil
}

// Round rounds a quantity expressed in this unit to its precision.
func (u UnitDefinition) Round(quantity decimal.Decimal) decimal.Decimal {
	if u.Decimals < 0 {
		return quantity
	}
	return quantity.Round(int32(u.Decimals))
}

// Validate checks the self-contained invariants of a definition: a code is
// present, Decimals is not negative, and FactorToBase, when present, is
// positive and paired with a BaseUnit. References to other units are checked
// by the Validator, not here.
func (u UnitDefinition) Validate() error {
	if u.Code.IsZero() {
		return invalidDefinition("Unit code is required")
	}
	if u.Decimals < 0 {
		return invalidDefinition(fmt.Sprintf("Unit %s has negative decimals", u.Code))
	}
	if u.FactorToBase != nil {
		if !u.FactorToBase.IsPositive() {
			return invalidDefinition(fmt.Sprintf("Unit %s factor to base must be positive", u.Code))
		}
		if u.BaseUnit.IsZero() {
			return invalidDefinition(fmt.Sprintf("Unit %s declares a factor to base without a base unit", u.Code))
		}
	}
	return nil
}

func invalidDefinition(message string) error {
	return shared.NewDomainError(shared.CodeInvalidDefinition, message)
}

// FactorPtr is a small helper for building definitions with a factor to base.
func FactorPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
