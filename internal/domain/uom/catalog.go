package uom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
)

// UnitCatalog is the administrative entry point for unit definitions and
// conversion edges. It validates every mutation before it reaches the store,
// so a rejected call never changes state. It holds no state of its own.
type UnitCatalog struct {
	store CatalogStore
}

// NewUnitCatalog creates a catalog backed by the given store
func NewUnitCatalog(store CatalogStore) *UnitCatalog {
	return &UnitCatalog{store: store}
}

// List returns every unit definition
func (c *UnitCatalog) List(ctx context.Context) ([]UnitDefinition, error) {
	return c.store.ListUnits(ctx)
}

// Get returns the definition for code. A missing unit is reported through
// the boolean, not as an error.
func (c *UnitCatalog) Get(ctx context.Context, code valueobject.UnitCode) (UnitDefinition, bool, error) {
	unit, err := c.store.FindUnit(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return UnitDefinition{}, false, nil
		}
		return UnitDefinition{}, false, err
	}
	return *unit, true, nil
}

// Upsert creates or replaces a unit definition. It fails with an
// INVALID_DEFINITION domain error before touching the store when the
// definition breaks its own invariants. References to other units
// (BaseUnit) are not checked here; the Validator reports dangling ones.
func (c *UnitCatalog) Upsert(ctx context.Context, def UnitDefinition) (UnitDefinition, error) {
	def.Name = strings.TrimSpace(def.Name)
	def.Category = NormalizeCategory(string(def.Category))
	if err := def.Validate(); err != nil {
		return UnitDefinition{}, err
	}
	if err := c.store.SaveUnit(ctx, def); err != nil {
		return UnitDefinition{}, fmt.Errorf("failed to save unit %s: %w", def.Code, err)
	}
	return def, nil
}

// Remove deletes a unit definition and reports whether it existed.
// Edges and packaging rows referencing the unit are left untouched; callers
// check downstream references first.
func (c *UnitCatalog) Remove(ctx context.Context, code valueobject.UnitCode) (bool, error) {
	if code.IsZero() {
		return false, nil
	}
	return c.store.DeleteUnit(ctx, code)
}

// ListEdges returns every conversion edge
func (c *UnitCatalog) ListEdges(ctx context.Context) ([]ConversionEdge, error) {
	return c.store.ListEdges(ctx)
}

// UpsertEdge creates or replaces the edge with the same endpoints.
// It fails with INVALID_EDGE when an endpoint is empty or Factor <= 0.
func (c *UnitCatalog) UpsertEdge(ctx context.Context, edge ConversionEdge) (ConversionEdge, error) {
	if err := edge.Validate(); err != nil {
		return ConversionEdge{}, err
	}
	if err := c.store.SaveEdge(ctx, edge); err != nil {
		return ConversionEdge{}, fmt.Errorf("failed to save conversion %s: %w", edge, err)
	}
	return edge, nil
}

// RemoveEdge deletes an edge and reports whether it existed
func (c *UnitCatalog) RemoveEdge(ctx context.Context, from, to valueobject.UnitCode) (bool, error) {
	return c.store.DeleteEdge(ctx, from, to)
}

// Snapshot loads units and edges for one validation or resolution pass
func (c *UnitCatalog) Snapshot(ctx context.Context) (Snapshot, error) {
	return LoadSnapshot(ctx, c.store)
}
