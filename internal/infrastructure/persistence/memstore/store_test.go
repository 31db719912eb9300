package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Units(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SaveUnit(ctx, uom.UnitDefinition{Code: valueobject.UnitCodeKG, Name: "Kilogram", IsBase: true}))
	require.NoError(t, s.SaveUnit(ctx, uom.UnitDefinition{Code: valueobject.UnitCodeG, Name: "Gram"}))
	require.NoError(t, s.SaveUnit(ctx, uom.UnitDefinition{Code: valueobject.UnitCodeG, Name: "Gramme"}))

	units, err := s.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, valueobject.UnitCodeG, units[0].Code)
	assert.Equal(t, "Gramme", units[0].Name)

	_, err = s.FindUnit(ctx, "LB")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	removed, err := s.DeleteUnit(ctx, valueobject.UnitCodeG)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteUnit(ctx, valueobject.UnitCodeG)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_Edges(t *testing.T) {
	ctx := context.Background()
	s := New()

	gkg := uom.ConversionEdge{From: valueobject.UnitCodeG, To: valueobject.UnitCodeKG, Factor: decimal.RequireFromString("0.001")}
	kgton := uom.ConversionEdge{From: valueobject.UnitCodeKG, To: valueobject.UnitCodeTON, Factor: decimal.RequireFromString("0.001")}
	require.NoError(t, s.SaveEdge(ctx, gkg))
	require.NoError(t, s.SaveEdge(ctx, kgton))

	gkg.Factor = decimal.RequireFromString("0.0010")
	require.NoError(t, s.SaveEdge(ctx, gkg))

	edges, err := s.ListEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, gkg.Key(), edges[0].Key(), "replaced edge keeps its position")

	removed, err := s.DeleteEdge(ctx, valueobject.UnitCodeG, valueobject.UnitCodeKG)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteEdge(ctx, valueobject.UnitCodeKG, valueobject.UnitCodeG)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_ProductsAndPackaging(t *testing.T) {
	ctx := context.Background()
	s := New()

	product, err := catalog.NewProduct("PRD-001", "Water", valueobject.UnitCodeEA)
	require.NoError(t, err)
	require.NoError(t, s.Products().Save(ctx, product))

	found, err := s.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "PRD-001", found.Code)

	row := &catalog.PackagingConversion{ProductID: product.ID, UOM: valueobject.UnitCodeCTN, UnitsPer: decimal.NewFromInt(24), BaseUOM: valueobject.UnitCodeEA}
	require.NoError(t, s.Packaging().Save(ctx, row))
	assert.NotEqual(t, uuid.Nil, row.ID)

	rows, err := s.Packaging().FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	removed, err := s.Packaging().Delete(ctx, product.ID, "CTN")
	require.NoError(t, err)
	assert.True(t, removed)

	assert.True(t, errors.Is(s.Products().Delete(ctx, uuid.New()), shared.ErrNotFound))
}

func TestStore_Tiers(t *testing.T) {
	ctx := context.Background()
	s := New()
	key := pricing.TierSetKey{ProductID: uuid.New(), PriceListID: uuid.New()}
	other := pricing.TierSetKey{ProductID: key.ProductID, PriceListID: uuid.New()}

	high, err := pricing.NewPriceTier(key, decimal.NewFromInt(10), nil, decimal.NewFromInt(8))
	require.NoError(t, err)
	low, err := pricing.NewPriceTier(key, decimal.Zero, pricing.MaxQtyPtr(decimal.NewFromInt(9)), decimal.NewFromInt(10))
	require.NoError(t, err)
	elsewhere, err := pricing.NewPriceTier(other, decimal.Zero, nil, decimal.NewFromInt(9))
	require.NoError(t, err)

	for _, tier := range []*pricing.PriceTier{high, low, elsewhere} {
		require.NoError(t, s.Tiers().Save(ctx, tier))
	}

	tiers, err := s.Tiers().FindBySet(ctx, key)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, low.ID, tiers[0].ID)

	all, err := s.Tiers().FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{high.ID, low.ID, elsewhere.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	removed, err := s.Tiers().Delete(ctx, high.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	all, _ = s.Tiers().FindAll(ctx)
	assert.Len(t, all, 2)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SaveUnit(ctx, uom.UnitDefinition{Code: valueobject.UnitCodeEA, IsBase: true})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.ListUnits(ctx)
		}()
	}
	wg.Wait()

	units, err := s.ListUnits(ctx)
	require.NoError(t, err)
	assert.Len(t, units, 1)
}
