package uom

import (
	"context"
	"fmt"

	"github.com/erp/uom/internal/domain/shared/valueobject"
)

// CatalogStore persists unit definitions and conversion edges.
// Implementations return shared.ErrNotFound from FindUnit for unknown codes
// and must be safe for concurrent use.
type CatalogStore interface {
	// ListUnits returns every unit ordered by code
	ListUnits(ctx context.Context) ([]UnitDefinition, error)

	// FindUnit finds a unit by code
	FindUnit(ctx context.Context, code valueobject.UnitCode) (*UnitDefinition, error)

	// SaveUnit creates or replaces the unit with the same code
	SaveUnit(ctx context.Context, unit UnitDefinition) error

	// DeleteUnit deletes a unit, reporting whether it existed
	DeleteUnit(ctx context.Context, code valueobject.UnitCode) (bool, error)

	// ListEdges returns every conversion edge in insertion order
	ListEdges(ctx context.Context) ([]ConversionEdge, error)

	// SaveEdge creates or replaces the edge with the same endpoints
	SaveEdge(ctx context.Context, edge ConversionEdge) error

	// DeleteEdge deletes an edge, reporting whether it existed
	DeleteEdge(ctx context.Context, from, to valueobject.UnitCode) (bool, error)
}

// UnitLookup resolves unit codes against a catalog.
type UnitLookup interface {
	Lookup(code valueobject.UnitCode) (UnitDefinition, bool)
}

// Snapshot is an immutable view of the catalog used for one validation or
// resolution pass.
type Snapshot struct {
	Units []UnitDefinition
	Edges []ConversionEdge

	index map[valueobject.UnitCode]int
}

// NewSnapshot builds a snapshot over the given units and edges.
// When a code appears more than once the first definition wins for lookups.
func NewSnapshot(units []UnitDefinition, edges []ConversionEdge) Snapshot {
	s := Snapshot{Units: units, Edges: edges, index: make(map[valueobject.UnitCode]int, len(units))}
	for i, u := range units {
		if _, dup := s.index[u.Code]; !dup {
			s.index[u.Code] = i
		}
	}
	return s
}

// LoadSnapshot reads the full catalog from a store.
func LoadSnapshot(ctx context.Context, store CatalogStore) (Snapshot, error) {
	units, err := store.ListUnits(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list units: %w", err)
	}
	edges, err := store.ListEdges(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list conversions: %w", err)
	}
	return NewSnapshot(units, edges), nil
}

// Lookup implements UnitLookup.
func (s Snapshot) Lookup(code valueobject.UnitCode) (UnitDefinition, bool) {
	if s.index == nil {
		for _, u := range s.Units {
			if u.Code == code {
				return u, true
			}
		}
		return UnitDefinition{}, false
	}
	i, ok := s.index[code]
	if !ok {
		return UnitDefinition{}, false
	}
	return s.Units[i], true
}
