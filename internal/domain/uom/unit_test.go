package uom

import (
	"errors"
	"testing"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestUnitDefinition_Validate(t *testing.T) {
	tests := []struct {
		name        string
		def         UnitDefinition
		wantErr     bool
		errContains string
	}{
		{
			name: "base unit",
			def:  UnitDefinition{Code: code("KG"), Name: "Kilogram", IsBase: true, Decimals: 3},
		},
		{
			name: "unit with factor to base",
			def:  UnitDefinition{Code: code("G"), FactorToBase: FactorPtr(dec("0.001")), BaseUnit: code("KG")},
		},
		{
			name:        "missing code",
			def:         UnitDefinition{Name: "Nameless"},
			wantErr:     true,
			errContains: "required",
		},
		{
			name:        "negative decimals",
			def:         UnitDefinition{Code: code("EA"), Decimals: -2},
			wantErr:     true,
			errContains: "negative decimals",
		},
		{
			name:        "zero factor",
			def:         UnitDefinition{Code: code("G"), FactorToBase: FactorPtr(dec("0")), BaseUnit: code("KG")},
			wantErr:     true,
			errContains: "positive",
		},
		{
			name:        "factor without base unit",
			def:         UnitDefinition{Code: code("G"), FactorToBase: FactorPtr(dec("0.001"))},
			wantErr:     true,
			errContains: "without a base unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.True(t, errors.Is(err, shared.ErrInvalidDefinition))
		})
	}
}

func TestUnitDefinition_Round(t *testing.T) {
	kg := UnitDefinition{Code: code("KG"), Decimals: 3}
	ea := UnitDefinition{Code: code("EA")}

	assert.Equal(t, "1.235", kg.Round(dec("1.23456")).String())
	assert.Equal(t, "3", ea.Round(dec("2.5")).String())
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryWeight, NormalizeCategory("  Weight "))
	assert.Equal(t, Category(""), NormalizeCategory(""))
}

func TestConversionEdge_Validate(t *testing.T) {
	assert.NoError(t, edge("G", "KG", "0.001").Validate())

	err := edge("G", "KG", "0").Validate()
	assert.True(t, errors.Is(err, shared.ErrInvalidEdge))

	err = ConversionEdge{From: code("G"), Factor: dec("1")}.Validate()
	assert.True(t, errors.Is(err, shared.ErrInvalidEdge))

	assert.Equal(t, "G -> KG", edge("G", "KG", "1").String())
}

func TestSnapshot_Lookup(t *testing.T) {
	units := append(weightUnits(), UnitDefinition{Code: code("KG"), Name: "Duplicate"})
	s := NewSnapshot(units, nil)

	u, ok := s.Lookup(code("KG"))
	assert.True(t, ok)
	assert.Equal(t, "Kilogram", u.Name)

	_, ok = s.Lookup(code("LB"))
	assert.False(t, ok)

	literal := Snapshot{Units: weightUnits()}
	u, ok = literal.Lookup(code("G"))
	assert.True(t, ok)
	assert.Equal(t, "Gram", u.Name)
}
