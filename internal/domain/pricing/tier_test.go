package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceTier(t *testing.T) {
	key := newKey()

	tier, err := NewPriceTier(key, decimal.NewFromInt(10), MaxQtyPtr(decimal.NewFromInt(49)), decimal.NewFromFloat(9.5))
	require.NoError(t, err)
	assert.Equal(t, key, tier.Key())
	assert.False(t, tier.IsOpenEnded())

	_, err = NewPriceTier(key, decimal.NewFromInt(10), MaxQtyPtr(decimal.NewFromInt(5)), decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewPriceTier(key, decimal.NewFromInt(-1), nil, decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewPriceTier(key, decimal.Zero, nil, decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestPriceTier_Contains(t *testing.T) {
	key := newKey()
	closed := tier(key, 10, qty(20))
	open := tier(key, 21, nil)

	assert.True(t, closed.Contains(decimal.NewFromInt(10)))
	assert.True(t, closed.Contains(decimal.NewFromInt(20)))
	assert.False(t, closed.Contains(decimal.NewFromInt(21)))
	assert.False(t, closed.Contains(decimal.NewFromInt(9)))
	assert.True(t, open.Contains(decimal.NewFromInt(1000000)))
}

func TestFindApplicableTier(t *testing.T) {
	key := newKey()
	tiers := []PriceTier{tier(key, 50, nil), tier(key, 0, qty(9)), tier(key, 10, qty(49))}
	tiers[0].UnitPrice = decimal.NewFromInt(7)

	got, ok := FindApplicableTier(tiers, decimal.NewFromInt(75))
	require.True(t, ok)
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(7)))

	got, ok = FindApplicableTier(tiers, decimal.NewFromInt(10))
	require.True(t, ok)
	assert.True(t, got.MinQty.Equal(decimal.NewFromInt(10)))

	_, ok = FindApplicableTier(tiers[1:2], decimal.NewFromInt(10))
	assert.False(t, ok)
}

func TestGroupBySet(t *testing.T) {
	a, b := newKey(), newKey()
	tiers := []PriceTier{tier(a, 0, nil), tier(b, 0, nil), tier(a, 10, nil)}

	keys, groups := GroupBySet(tiers)

	assert.Equal(t, []TierSetKey{a, b}, keys)
	assert.Len(t, groups[a], 2)
	assert.Len(t, groups[b], 1)
}
