package models

import (
	"sync"
	"testing"

	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestUnitModel_RoundTrip(t *testing.T) {
	def := uom.UnitDefinition{
		Code:         valueobject.UnitCodeG,
		Name:         "Gram",
		Category:     uom.CategoryWeight,
		FactorToBase: uom.FactorPtr(decimal.RequireFromString("0.001")),
		BaseUnit:     valueobject.UnitCodeKG,
	}
	var m UnitModel
	m.FromDomain(def)

	assert.Equal(t, "G", m.Code)
	assert.Equal(t, "KG", m.BaseUnit)
	assert.Equal(t, def, m.ToDomain())
	assert.Equal(t, "units", m.TableName())
}

func TestConversionModel_RoundTrip(t *testing.T) {
	edge := uom.ConversionEdge{From: valueobject.UnitCodeKG, To: valueobject.UnitCodeTON, Factor: decimal.RequireFromString("0.001")}
	var m ConversionModel
	m.FromDomain(edge)

	assert.Equal(t, "KG", m.FromUnit)
	assert.Equal(t, edge, m.ToDomain())
	assert.Equal(t, "conversions", m.TableName())
}

func TestPackagingAndTierModels(t *testing.T) {
	row := &catalog.PackagingConversion{
		ID: uuid.New(), ProductID: uuid.New(),
		UOM: valueobject.MustNewUnitCode("CTN"), UnitsPer: decimal.NewFromInt(24), BaseUOM: valueobject.MustNewUnitCode("EA"),
	}
	assert.Equal(t, *row, PackagingModelFromDomain(row).ToDomain())

	tier := &pricing.PriceTier{
		ID: uuid.New(), ProductID: uuid.New(), PriceListID: uuid.New(),
		MinQty: decimal.Zero, MaxQty: pricing.MaxQtyPtr(decimal.NewFromInt(9)), UnitPrice: decimal.NewFromInt(3),
	}
	assert.Equal(t, *tier, PriceTierModelFromDomain(tier).ToDomain())

	product := &catalog.Product{ID: uuid.New(), Code: "SKU", Name: "Widget", BaseUnit: valueobject.MustNewUnitCode("EA")}
	assert.Equal(t, product, ProductModelFromDomain(product).ToDomain())
	assert.Len(t, All(), 5)
}

func TestFactorColumnsAreUnconstrainedNumeric(t *testing.T) {
	tests := []struct {
		model any
		field string
	}{
		{&UnitModel{}, "FactorToBase"},
		{&ConversionModel{}, "Factor"},
		{&PackagingModel{}, "UnitsPer"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			sch, err := schema.Parse(tt.model, &sync.Map{}, schema.NamingStrategy{})
			require.NoError(t, err)
			f := sch.LookUpField(tt.field)
			require.NotNil(t, f)
			assert.Equal(t, schema.DataType("numeric"), f.DataType)
		})
	}
}
