package models

import (
	"time"

	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/shopspring/decimal"
)

// UnitModel is the persistence model for a unit definition, keyed by code.
type UnitModel struct {
	Code         string           `gorm:"type:varchar(20);primaryKey"`
	Name         string           `gorm:"type:varchar(100);not null;default:''"`
	Category     string           `gorm:"type:varchar(50);not null;default:'';index"`
	IsBase       bool             `gorm:"not null;default:false"`
	FactorToBase *decimal.Decimal `gorm:"type:numeric"`
	BaseUnit     string           `gorm:"type:varchar(20);not null;default:''"`
	Decimals     int              `gorm:"not null;default:0"`
	CreatedAt    time.Time        `gorm:"not null"`
	UpdatedAt    time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain UnitDefinition.
func (m *UnitModel) ToDomain() uom.UnitDefinition {
	return uom.UnitDefinition{
		Code:         valueobject.UnitCode(m.Code),
		Name:         m.Name,
		Category:     uom.Category(m.Category),
		IsBase:       m.IsBase,
		FactorToBase: m.FactorToBase,
		BaseUnit:     valueobject.UnitCode(m.BaseUnit),
		Decimals:     m.Decimals,
	}
}

// FromDomain populates the persistence model from a domain UnitDefinition.
func (m *UnitModel) FromDomain(u uom.UnitDefinition) {
	m.Code = u.Code.String()
	m.Name = u.Name
	m.Category = string(u.Category)
	m.IsBase = u.IsBase
	m.FactorToBase = u.FactorToBase
	m.BaseUnit = u.BaseUnit.String()
	m.Decimals = u.Decimals
}

// ConversionModel is the persistence model for a directed conversion edge.
// Seq keeps insertion order, which breaks ties between equally short paths.
type ConversionModel struct {
	Seq       uint            `gorm:"primaryKey;autoIncrement"`
	FromUnit  string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_conversion_endpoints,priority:1"`
	ToUnit    string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_conversion_endpoints,priority:2"`
	Factor    decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConversionModel) TableName() string {
	return "conversions"
}

// ToDomain converts the persistence model to a domain ConversionEdge.
func (m *ConversionModel) ToDomain() uom.ConversionEdge {
	return uom.ConversionEdge{
		From:   valueobject.UnitCode(m.FromUnit),
		To:     valueobject.UnitCode(m.ToUnit),
		Factor: m.Factor,
	}
}

// FromDomain populates the persistence model from a domain ConversionEdge.
func (m *ConversionModel) FromDomain(e uom.ConversionEdge) {
	m.FromUnit = e.From.String()
	m.ToUnit = e.To.String()
	m.Factor = e.Factor
}
