package uom

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogStore is a mock implementation of CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) ListUnits(ctx context.Context) ([]UnitDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]UnitDefinition), args.Error(1)
}

func (m *MockCatalogStore) FindUnit(ctx context.Context, code valueobject.UnitCode) (*UnitDefinition, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UnitDefinition), args.Error(1)
}

func (m *MockCatalogStore) SaveUnit(ctx context.Context, unit UnitDefinition) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockCatalogStore) DeleteUnit(ctx context.Context, code valueobject.UnitCode) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogStore) ListEdges(ctx context.Context) ([]ConversionEdge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ConversionEdge), args.Error(1)
}

func (m *MockCatalogStore) SaveEdge(ctx context.Context, edge ConversionEdge) error {
	args := m.Called(ctx, edge)
	return args.Error(0)
}

func (m *MockCatalogStore) DeleteEdge(ctx context.Context, from, to valueobject.UnitCode) (bool, error) {
	args := m.Called(ctx, from, to)
	return args.Bool(0), args.Error(1)
}

func TestUnitCatalog_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store := new(MockCatalogStore)
		kg := weightUnits()[0]
		store.On("FindUnit", ctx, code("KG")).Return(&kg, nil)

		got, ok, err := NewUnitCatalog(store).Get(ctx, code("KG"))

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, kg, got)
		store.AssertExpectations(t)
	})

	t.Run("missing is not an error", func(t *testing.T) {
		store := new(MockCatalogStore)
		store.On("FindUnit", ctx, code("LB")).Return(nil, shared.ErrNotFound)

		_, ok, err := NewUnitCatalog(store).Get(ctx, code("LB"))

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockCatalogStore)
		store.On("FindUnit", ctx, code("KG")).Return(nil, errors.New("connection refused"))

		_, ok, err := NewUnitCatalog(store).Get(ctx, code("KG"))

		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestUnitCatalog_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and saves", func(t *testing.T) {
		store := new(MockCatalogStore)
		want := UnitDefinition{Code: code("KG"), Name: "Kilogram", Category: CategoryWeight, IsBase: true, Decimals: 3}
		store.On("SaveUnit", ctx, want).Return(nil)

		got, err := NewUnitCatalog(store).Upsert(ctx, UnitDefinition{
			Code: code("KG"), Name: " Kilogram ", Category: " WEIGHT", IsBase: true, Decimals: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, want, got)
		store.AssertExpectations(t)
	})

	t.Run("invalid definition never reaches the store", func(t *testing.T) {
		store := new(MockCatalogStore)

		_, err := NewUnitCatalog(store).Upsert(ctx, UnitDefinition{Code: code("G"), FactorToBase: FactorPtr(dec("0.001"))})

		assert.True(t, errors.Is(err, shared.ErrInvalidDefinition))
		store.AssertNotCalled(t, "SaveUnit", mock.Anything, mock.Anything)
	})

	t.Run("dangling base unit accepted", func(t *testing.T) {
		store := new(MockCatalogStore)
		store.On("SaveUnit", ctx, mock.AnythingOfType("uom.UnitDefinition")).Return(nil)

		_, err := NewUnitCatalog(store).Upsert(ctx, UnitDefinition{
			Code: code("G"), FactorToBase: FactorPtr(dec("0.001")), BaseUnit: code("KG"),
		})

		assert.NoError(t, err)
	})

	t.Run("store error wrapped", func(t *testing.T) {
		store := new(MockCatalogStore)
		cause := errors.New("disk full")
		store.On("SaveUnit", ctx, mock.Anything).Return(cause)

		_, err := NewUnitCatalog(store).Upsert(ctx, UnitDefinition{Code: code("EA"), IsBase: true})

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "EA")
	})
}

func TestUnitCatalog_Remove(t *testing.T) {
	ctx := context.Background()
	store := new(MockCatalogStore)
	store.On("DeleteUnit", ctx, code("KG")).Return(true, nil).Once()
	store.On("DeleteUnit", ctx, code("KG")).Return(false, nil).Once()
	catalog := NewUnitCatalog(store)

	removed, err := catalog.Remove(ctx, code("KG"))
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = catalog.Remove(ctx, code("KG"))
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = catalog.Remove(ctx, "")
	require.NoError(t, err)
	assert.False(t, removed)
	store.AssertNumberOfCalls(t, "DeleteUnit", 2)
}

func TestUnitCatalog_UpsertEdge(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		store := new(MockCatalogStore)
		e := edge("G", "KG", "0.001")
		store.On("SaveEdge", ctx, e).Return(nil)

		got, err := NewUnitCatalog(store).UpsertEdge(ctx, e)

		require.NoError(t, err)
		assert.Equal(t, e, got)
		store.AssertExpectations(t)
	})

	t.Run("non-positive factor rejected", func(t *testing.T) {
		store := new(MockCatalogStore)

		_, err := NewUnitCatalog(store).UpsertEdge(ctx, edge("G", "KG", "-1"))

		assert.True(t, errors.Is(err, shared.ErrInvalidEdge))
		store.AssertNotCalled(t, "SaveEdge", mock.Anything, mock.Anything)
	})
}

func TestUnitCatalog_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("loads units and edges", func(t *testing.T) {
		store := new(MockCatalogStore)
		edges := []ConversionEdge{edge("G", "KG", "0.001")}
		store.On("ListUnits", ctx).Return(weightUnits(), nil)
		store.On("ListEdges", ctx).Return(edges, nil)

		s, err := NewUnitCatalog(store).Snapshot(ctx)

		require.NoError(t, err)
		assert.Len(t, s.Units, 3)
		assert.Equal(t, edges, s.Edges)
		_, ok := s.Lookup(code("TON"))
		assert.True(t, ok)
	})

	t.Run("edge listing fails", func(t *testing.T) {
		store := new(MockCatalogStore)
		store.On("ListUnits", ctx).Return(weightUnits(), nil)
		store.On("ListEdges", ctx).Return(nil, errors.New("timeout"))

		_, err := NewUnitCatalog(store).Snapshot(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list conversions")
	})
}
