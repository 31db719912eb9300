// Package memstore keeps the unit catalog, products, packaging rows and price
// tiers in process memory. It backs the "memory" database driver, the CLI
// and tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/google/uuid"
)

type packagingKey struct {
	productID uuid.UUID
	uom       valueobject.UnitCode
}

// Store is a thread-safe in-memory store. It implements uom.CatalogStore
// directly; the other repositories are reached through Products, Packaging
// and Tiers and share the same lock.
type Store struct {
	mu sync.RWMutex

	units map[valueobject.UnitCode]uom.UnitDefinition
	edges []uom.ConversionEdge

	products  map[uuid.UUID]catalog.Product
	packaging map[packagingKey]catalog.PackagingConversion
	tiers     map[uuid.UUID]pricing.PriceTier
	tierOrder []uuid.UUID
}

// New creates an empty store
func New() *Store {
	return &Store{
		units:     make(map[valueobject.UnitCode]uom.UnitDefinition),
		products:  make(map[uuid.UUID]catalog.Product),
		packaging: make(map[packagingKey]catalog.PackagingConversion),
		tiers:     make(map[uuid.UUID]pricing.PriceTier),
	}
}

// ListUnits returns every unit ordered by code
func (s *Store) ListUnits(ctx context.Context) ([]uom.UnitDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units := make([]uom.UnitDefinition, 0, len(s.units))
	for _, u := range s.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Code < units[j].Code })
	return units, nil
}

// FindUnit finds a unit by code
func (s *Store) FindUnit(ctx context.Context, code valueobject.UnitCode) (*uom.UnitDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.units[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

// SaveUnit creates or replaces a unit
func (s *Store) SaveUnit(ctx context.Context, unit uom.UnitDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.units[unit.Code] = unit
	return nil
}

// DeleteUnit deletes a unit
func (s *Store) DeleteUnit(ctx context.Context, code valueobject.UnitCode) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.units[code]; !ok {
		return false, nil
	}
	delete(s.units, code)
	return true, nil
}

// ListEdges returns every edge in insertion order
func (s *Store) ListEdges(ctx context.Context) ([]uom.ConversionEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]uom.ConversionEdge, len(s.edges))
	copy(edges, s.edges)
	return edges, nil
}

// SaveEdge creates or replaces an edge. A replaced edge keeps its position.
func (s *Store) SaveEdge(ctx context.Context, edge uom.ConversionEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.edges {
		if e.Key() == edge.Key() {
			s.edges[i] = edge
			return nil
		}
	}
	s.edges = append(s.edges, edge)
	return nil
}

// DeleteEdge deletes an edge
func (s *Store) DeleteEdge(ctx context.Context, from, to valueobject.UnitCode) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uom.EdgeKey{From: from, To: to}
	for i, e := range s.edges {
		if e.Key() == key {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Products returns the product repository view of the store
func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

// Packaging returns the packaging repository view of the store
func (s *Store) Packaging() *PackagingRepository {
	return &PackagingRepository{s: s}
}

// Tiers returns the price tier repository view of the store
func (s *Store) Tiers() *TierRepository {
	return &TierRepository{s: s}
}

// ProductRepository implements catalog.ProductRepository over a Store
type ProductRepository struct {
	s *Store
}

// FindByID finds a product by its ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

// FindAll returns every product ordered by code
func (r *ProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]catalog.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Code != products[j].Code {
			return products[i].Code < products[j].Code
		}
		return products[i].ID.String() < products[j].ID.String()
	})
	return products, nil
}

// Save creates or updates a product
func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.products[product.ID] = *product
	return nil
}

// Delete deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// PackagingRepository implements catalog.PackagingRepository over a Store
type PackagingRepository struct {
	s *Store
}

// FindByProductID returns the packaging rows of a product ordered by unit code
func (r *PackagingRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]catalog.PackagingConversion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []catalog.PackagingConversion
	for key, row := range r.s.packaging {
		if key.productID == productID {
			rows = append(rows, row)
		}
	}
	sortPackaging(rows)
	return rows, nil
}

// FindAll returns every packaging row
func (r *PackagingRepository) FindAll(ctx context.Context) ([]catalog.PackagingConversion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]catalog.PackagingConversion, 0, len(r.s.packaging))
	for _, row := range r.s.packaging {
		rows = append(rows, row)
	}
	sortPackaging(rows)
	return rows, nil
}

// Save creates or replaces the row with the same product and unit
func (r *PackagingRepository) Save(ctx context.Context, row *catalog.PackagingConversion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.s.packaging[packagingKey{productID: row.ProductID, uom: row.UOM}] = *row
	return nil
}

// Delete deletes the row for a product and unit
func (r *PackagingRepository) Delete(ctx context.Context, productID uuid.UUID, unit string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := packagingKey{productID: productID, uom: valueobject.UnitCode(unit)}
	if _, ok := r.s.packaging[key]; !ok {
		return false, nil
	}
	delete(r.s.packaging, key)
	return true, nil
}

func sortPackaging(rows []catalog.PackagingConversion) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID.String() < rows[j].ProductID.String()
		}
		return rows[i].UOM < rows[j].UOM
	})
}

// TierRepository implements pricing.TierRepository over a Store
type TierRepository struct {
	s *Store
}

// FindBySet returns the tiers of one product in one price list ordered by MinQty
func (r *TierRepository) FindBySet(ctx context.Context, key pricing.TierSetKey) ([]pricing.PriceTier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var tiers []pricing.PriceTier
	for _, id := range r.s.tierOrder {
		if t := r.s.tiers[id]; t.Key() == key {
			tiers = append(tiers, t)
		}
	}
	return pricing.SortTiers(tiers), nil
}

// FindAll returns every tier in insertion order
func (r *TierRepository) FindAll(ctx context.Context) ([]pricing.PriceTier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tiers := make([]pricing.PriceTier, 0, len(r.s.tierOrder))
	for _, id := range r.s.tierOrder {
		tiers = append(tiers, r.s.tiers[id])
	}
	return tiers, nil
}

// Save creates or updates a tier
func (r *TierRepository) Save(ctx context.Context, tier *pricing.PriceTier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if tier.ID == uuid.Nil {
		tier.ID = uuid.New()
	}
	if _, exists := r.s.tiers[tier.ID]; !exists {
		r.s.tierOrder = append(r.s.tierOrder, tier.ID)
	}
	r.s.tiers[tier.ID] = *tier
	return nil
}

// Delete deletes a tier
func (r *TierRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tiers[id]; !ok {
		return false, nil
	}
	delete(r.s.tiers, id)
	for i, tid := range r.s.tierOrder {
		if tid == id {
			r.s.tierOrder = append(r.s.tierOrder[:i], r.s.tierOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

// Interface compliance checks
var (
	_ uom.CatalogStore            = (*Store)(nil)
	_ catalog.ProductRepository   = (*ProductRepository)(nil)
	_ catalog.PackagingRepository = (*PackagingRepository)(nil)
	_ pricing.TierRepository      = (*TierRepository)(nil)
)
