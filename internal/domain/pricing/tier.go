// Package pricing holds quantity-break price tiers and the checks that keep
// them consistent.
package pricing

import (
	"sort"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTier is one quantity break of a price list for a product.
// Bounds are inclusive; a nil MaxQty means the tier is open-ended.
type PriceTier struct {
	ID          uuid.UUID            `json:"id"`
	ProductID   uuid.UUID            `json:"product_id"`
	PriceListID uuid.UUID            `json:"price_list_id"`
	MinQty      decimal.Decimal      `json:"min_qty"`
	MaxQty      *decimal.Decimal     `json:"max_qty,omitempty"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	UOM         valueobject.UnitCode `json:"uom,omitempty"`
}

// TierSetKey identifies the tiers of one product within one price list
type TierSetKey struct {
	ProductID   uuid.UUID `json:"product_id"`
	PriceListID uuid.UUID `json:"price_list_id"`
}

// NewPriceTier creates a tier and enforces its bound ordering
func NewPriceTier(key TierSetKey, minQty decimal.Decimal, maxQty *decimal.Decimal, unitPrice decimal.Decimal) (*PriceTier, error) {
	tier := &PriceTier{
		ID:          uuid.New(),
		ProductID:   key.ProductID,
		PriceListID: key.PriceListID,
		MinQty:      minQty,
		MaxQty:      maxQty,
		UnitPrice:   unitPrice,
	}
	if !tier.HasValidBounds() {
		return nil, shared.NewDomainError("INVALID_TIER", "Tier bounds must satisfy 0 <= min <= max")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return tier, nil
}

// Key returns the tier set this tier belongs to
func (t PriceTier) Key() TierSetKey {
	return TierSetKey{ProductID: t.ProductID, PriceListID: t.PriceListID}
}

// HasValidBounds reports MinQty >= 0 and, when present, MaxQty >= MinQty
func (t PriceTier) HasValidBounds() bool {
	if t.MinQty.IsNegative() {
		return false
	}
	return t.MaxQty == nil || !t.MaxQty.LessThan(t.MinQty)
}

// IsOpenEnded reports whether the tier has no upper bound
func (t PriceTier) IsOpenEnded() bool {
	return t.MaxQty == nil
}

// Contains reports whether quantity falls within the tier's inclusive bounds
func (t PriceTier) Contains(quantity decimal.Decimal) bool {
	if quantity.LessThan(t.MinQty) {
		return false
	}
	return t.MaxQty == nil || !quantity.GreaterThan(*t.MaxQty)
}

// SortTiers returns a copy of tiers ordered by MinQty ascending.
// Tiers with equal MinQty keep their relative order.
func SortTiers(tiers []PriceTier) []PriceTier {
	sorted := make([]PriceTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQty.LessThan(sorted[j].MinQty)
	})
	return sorted
}

// FindApplicableTier returns the tier with the highest MinQty that contains
// quantity.
func FindApplicableTier(tiers []PriceTier, quantity decimal.Decimal) (PriceTier, bool) {
	sorted := SortTiers(tiers)
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Contains(quantity) {
			return sorted[i], true
		}
	}
	return PriceTier{}, false
}

// MaxQtyPtr is a small helper for building tiers with an upper bound
func MaxQtyPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
