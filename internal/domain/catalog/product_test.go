package catalog

import (
	"testing"

	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		productName string
		baseUnit    valueobject.UnitCode
		wantErr     bool
		errContains string
	}{
		{name: "valid product", code: "prd-001", productName: "Bottled Water", baseUnit: valueobject.UnitCodeEA},
		{name: "empty code", code: " ", productName: "Water", baseUnit: valueobject.UnitCodeEA, wantErr: true, errContains: "code cannot be empty"},
		{name: "empty name", code: "PRD-002", productName: "", baseUnit: valueobject.UnitCodeEA, wantErr: true, errContains: "name cannot be empty"},
		{name: "missing base unit", code: "PRD-003", productName: "Flour", wantErr: true, errContains: "base unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := NewProduct(tt.code, tt.productName, tt.baseUnit)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, product.ID)
			assert.Equal(t, "PRD-001", product.Code)
			assert.Equal(t, tt.baseUnit, product.BaseUnit)
		})
	}
}

func TestProductRef_DisplayName(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "PRD-001", ProductRef{ID: id, Code: "PRD-001"}.DisplayName())
	assert.Equal(t, id.String(), ProductRef{ID: id}.DisplayName())
}
