package persistence

import (
	"context"
	"errors"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/erp/uom/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogStore implements uom.CatalogStore using GORM
type GormCatalogStore struct {
	db *gorm.DB
}

// NewGormCatalogStore creates a new GormCatalogStore
func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

// ListUnits returns every unit ordered by code
func (s *GormCatalogStore) ListUnits(ctx context.Context) ([]uom.UnitDefinition, error) {
	var rows []models.UnitModel
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	units := make([]uom.UnitDefinition, len(rows))
	for i := range rows {
		units[i] = rows[i].ToDomain()
	}
	return units, nil
}

// FindUnit finds a unit by code
func (s *GormCatalogStore) FindUnit(ctx context.Context, code valueobject.UnitCode) (*uom.UnitDefinition, error) {
	var row models.UnitModel
	if err := s.db.WithContext(ctx).Where("code = ?", code.String()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	unit := row.ToDomain()
	return &unit, nil
}

// SaveUnit creates or replaces the unit with the same code
func (s *GormCatalogStore) SaveUnit(ctx context.Context, unit uom.UnitDefinition) error {
	var row models.UnitModel
	row.FromDomain(unit)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "is_base", "factor_to_base", "base_unit", "decimals", "updated_at",
		}),
	}).Create(&row).Error
}

// DeleteUnit deletes a unit, reporting whether it existed
func (s *GormCatalogStore) DeleteUnit(ctx context.Context, code valueobject.UnitCode) (bool, error) {
	result := s.db.WithContext(ctx).Where("code = ?", code.String()).Delete(&models.UnitModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListEdges returns every conversion edge in insertion order
func (s *GormCatalogStore) ListEdges(ctx context.Context) ([]uom.ConversionEdge, error) {
	var rows []models.ConversionModel
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	edges := make([]uom.ConversionEdge, len(rows))
	for i := range rows {
		edges[i] = rows[i].ToDomain()
	}
	return edges, nil
}

// SaveEdge creates or replaces the edge with the same endpoints. A replaced
// edge keeps its original position.
func (s *GormCatalogStore) SaveEdge(ctx context.Context, edge uom.ConversionEdge) error {
	var row models.ConversionModel
	row.FromDomain(edge)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_unit"}, {Name: "to_unit"}},
		DoUpdates: clause.AssignmentColumns([]string{"factor", "updated_at"}),
	}).Create(&row).Error
}

// DeleteEdge deletes an edge, reporting whether it existed
func (s *GormCatalogStore) DeleteEdge(ctx context.Context, from, to valueobject.UnitCode) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("from_unit = ? AND to_unit = ?", from.String(), to.String()).
		Delete(&models.ConversionModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ uom.CatalogStore = (*GormCatalogStore)(nil)
