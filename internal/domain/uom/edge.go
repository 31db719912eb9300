package uom

import (
	"fmt"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ConversionEdge states that one From equals Factor To:
// quantityInTo = quantityInFrom * Factor.
// Edges are directed; the reverse is never implied.
type ConversionEdge struct {
	From   valueobject.UnitCode `json:"from_unit"`
	To     valueobject.UnitCode `json:"to_unit"`
	Factor decimal.Decimal      `json:"factor"`
}

// EdgeKey identifies an edge within a catalog.
type EdgeKey struct {
	From valueobject.UnitCode
	To   valueobject.UnitCode
}

// Key returns the (From, To) identity of the edge.
func (e ConversionEdge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// String renders the edge as "FROM -> TO".
func (e ConversionEdge) String() string {
	return fmt.Sprintf("%s -> %s", e.From, e.To)
}

// Validate checks the edge on its own: both endpoints set and Factor > 0.
// Whether the endpoints exist in a catalog is the Validator's concern.
func (e ConversionEdge) Validate() error {
	if e.From.IsZero() || e.To.IsZero() {
		return shared.NewDomainError(shared.CodeInvalidEdge, "Conversion endpoints are required")
	}
	if !e.Factor.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidEdge,
			fmt.Sprintf("Conversion %s factor must be positive", e))
	}
	return nil
}
