package catalog

import (
	"strings"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Product is the read-only view of a product/SKU that the unit-of-measure
// engine needs: its identity and the unit it is stocked in.
type Product struct {
	ID       uuid.UUID            `json:"id"`
	Code     string               `json:"code"`
	Name     string               `json:"name"`
	BaseUnit valueobject.UnitCode `json:"base_unit"`
}

// ProductRef identifies a product in findings and reports
type ProductRef struct {
	ID   uuid.UUID
	Code string
	Name string
}

// NewProduct creates a new product
func NewProduct(code, name string, baseUnit valueobject.UnitCode) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if baseUnit.IsZero() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Product base unit cannot be empty")
	}

	return &Product{
		ID:       uuid.New(),
		Code:     strings.ToUpper(strings.TrimSpace(code)),
		Name:     strings.TrimSpace(name),
		BaseUnit: baseUnit,
	}, nil
}

// Ref returns the reference used when reporting on this product
func (p Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, Code: p.Code, Name: p.Name}
}

// DisplayName returns the code when set, the id otherwise
func (r ProductRef) DisplayName() string {
	if r.Code != "" {
		return r.Code
	}
	return r.ID.String()
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
