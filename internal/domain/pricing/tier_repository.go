package pricing

import (
	"context"

	"github.com/google/uuid"
)

// TierRepository defines the interface for price tier persistence
type TierRepository interface {
	// FindBySet returns the tiers of one product in one price list ordered by MinQty
	FindBySet(ctx context.Context, key TierSetKey) ([]PriceTier, error)

	// FindAll returns every tier
	FindAll(ctx context.Context) ([]PriceTier, error)

	// Save creates or updates a tier
	Save(ctx context.Context, tier *PriceTier) error

	// Delete deletes a tier, reporting whether it existed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// GroupBySet splits tiers into their (product, price list) sets.
// Keys are returned in order of first appearance.
func GroupBySet(tiers []PriceTier) ([]TierSetKey, map[TierSetKey][]PriceTier) {
	var keys []TierSetKey
	groups := make(map[TierSetKey][]PriceTier)
	for _, t := range tiers {
		key := t.Key()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], t)
	}
	return keys, groups
}
