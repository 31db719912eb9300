package handler

import (
	"fmt"
	"net/http"
	"testing"

	catalogapp "github.com/erp/uom/internal/application/catalog"
	pricingapp "github.com/erp/uom/internal/application/pricing"
	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProduct(t *testing.T, api *testAPI) catalogapp.ProductResponse {
	t.Helper()
	w, _ := api.do(t, http.MethodPut, uomBase+"/units/EA", map[string]any{"name": "Each", "category": "count", "is_base": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := api.do(t, http.MethodPost, uomBase+"/products", map[string]any{
		"code": "sku-1", "name": "Widget", "base_unit": "ea",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[catalogapp.ProductResponse](t, env)
}

func TestProductHandler_Products(t *testing.T) {
	api := newTestAPI(t, nil)
	product := createProduct(t, api)

	assert.Equal(t, "SKU-1", product.Code)
	assert.Equal(t, "EA", product.BaseUnit)

	_, env := api.do(t, http.MethodGet, uomBase+"/products", nil)
	products := decodeData[[]catalogapp.ProductResponse](t, env)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)

	w, env := api.do(t, http.MethodPost, uomBase+"/products", map[string]any{"code": "X", "name": "Y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
}

func TestProductHandler_Packaging(t *testing.T) {
	api := newTestAPI(t, nil)
	product := createProduct(t, api)
	packaging := fmt.Sprintf("%s/products/%s/packaging", uomBase, product.ID)

	t.Run("no packaging yet", func(t *testing.T) {
		_, env := api.do(t, http.MethodGet, packaging+"/validate", nil)
		report := decodeData[catalogapp.ProductReport](t, env)
		require.Len(t, report.Findings, 1)
		assert.True(t, report.Findings[0].OK)
		assert.Equal(t, catalog.DetailNoPackaging, report.Findings[0].Detail)
	})

	t.Run("upsert", func(t *testing.T) {
		w, env := api.do(t, http.MethodPut, packaging, map[string]any{"uom": "ctn", "units_per": "12", "base_uom": "EA"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		row := decodeData[catalogapp.PackagingResponse](t, env)
		assert.Equal(t, "1 CTN = 12 EA", row.Description)

		// replacing the row keeps one entry per unit
		w, _ = api.do(t, http.MethodPut, packaging, map[string]any{"uom": "CTN", "units_per": "24", "base_uom": "EA"})
		require.Equal(t, http.StatusOK, w.Code)
		_, env = api.do(t, http.MethodGet, packaging, nil)
		rows := decodeData[[]catalogapp.PackagingResponse](t, env)
		require.Len(t, rows, 1)
		assert.True(t, decimal.NewFromInt(24).Equal(rows[0].UnitsPer))
	})

	t.Run("rejects bad rows", func(t *testing.T) {
		tests := []struct {
			name       string
			body       map[string]any
			wantStatus int
			wantCode   string
		}{
			{"zero units", map[string]any{"uom": "BOX", "units_per": "0", "base_uom": "EA"}, http.StatusUnprocessableEntity, dto.ErrCodeInvalidPackaging},
			{"same unit", map[string]any{"uom": "EA", "units_per": "1", "base_uom": "EA"}, http.StatusConflict, dto.ErrCodeDuplicateUnitCode},
			{"missing uom", map[string]any{"units_per": "1", "base_uom": "EA"}, http.StatusBadRequest, dto.ErrCodeValidation},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w, env := api.do(t, http.MethodPut, packaging, tt.body)
				assert.Equal(t, tt.wantStatus, w.Code)
				assert.Equal(t, tt.wantCode, env.Error.Code)
			})
		}
	})

	t.Run("unknown base unit fails validation", func(t *testing.T) {
		w, _ := api.do(t, http.MethodPut, packaging, map[string]any{"uom": "PLT", "units_per": "40", "base_uom": "CTN"})
		require.Equal(t, http.StatusOK, w.Code)

		_, env := api.do(t, http.MethodGet, packaging+"/validate", nil)
		report := decodeData[catalogapp.ProductReport](t, env)
		require.Len(t, report.Findings, 2)
		assert.True(t, report.Findings[0].OK)
		assert.False(t, report.Findings[1].OK)
		assert.Equal(t, catalog.DetailInvalidConversion, report.Findings[1].Detail)
	})

	t.Run("delete", func(t *testing.T) {
		w, _ := api.do(t, http.MethodDelete, packaging+"/PLT", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w, _ = api.do(t, http.MethodDelete, packaging+"/PLT", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		w, env := api.do(t, http.MethodPut, fmt.Sprintf("%s/products/%s/packaging", uomBase, uuid.New()),
			map[string]any{"uom": "CTN", "units_per": "12", "base_uom": "EA"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeProductNotFound, env.Error.Code)
	})

	t.Run("bad product id", func(t *testing.T) {
		w, env := api.do(t, http.MethodGet, uomBase+"/products/nope/packaging", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, env.Error.Code)
	})
}

func TestProductHandler_Tiers(t *testing.T) {
	api := newTestAPI(t, nil)
	productID, priceListID := uuid.New(), uuid.New()
	tiersURL := fmt.Sprintf("%s/products/%s/price-lists/%s/tiers", uomBase, productID, priceListID)

	addTier := func(minQty string, maxQty any, price string) (int, pricing.PriceTier) {
		body := map[string]any{
			"product_id": productID, "price_list_id": priceListID,
			"min_qty": minQty, "unit_price": price,
		}
		if maxQty != nil {
			body["max_qty"] = maxQty
		}
		w, env := api.do(t, http.MethodPost, uomBase+"/tiers", body)
		if w.Code != http.StatusCreated {
			return w.Code, pricing.PriceTier{}
		}
		return w.Code, decodeData[pricing.PriceTier](t, env)
	}

	status, small := addTier("0", "9", "5")
	require.Equal(t, http.StatusCreated, status)
	status, _ = addTier("10", nil, "4")
	require.Equal(t, http.StatusCreated, status)

	t.Run("invalid bounds", func(t *testing.T) {
		status, _ := addTier("10", "5", "1")
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("list ordered by min qty", func(t *testing.T) {
		_, env := api.do(t, http.MethodGet, tiersURL, nil)
		tiers := decodeData[[]pricing.PriceTier](t, env)
		require.Len(t, tiers, 2)
		assert.True(t, tiers[0].MinQty.IsZero())
		assert.True(t, decimal.NewFromInt(10).Equal(tiers[1].MinQty))
	})

	t.Run("validate", func(t *testing.T) {
		_, env := api.do(t, http.MethodGet, tiersURL+"/validate", nil)
		report := decodeData[pricingapp.TierSetReport](t, env)
		assert.True(t, report.Finding.OK)
		assert.Equal(t, "2 tiers", report.Finding.Detail)
		assert.Nil(t, report.Intervals)
	})

	t.Run("quote", func(t *testing.T) {
		tests := []struct {
			qty       string
			wantTotal string
		}{
			{"3", "15"},
			{"12", "48"},
		}
		for _, tt := range tests {
			w, env := api.do(t, http.MethodGet, tiersURL+"/quote?qty="+tt.qty, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			quote := decodeData[pricingapp.Quote](t, env)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(quote.Total), quote.Total.String())
		}

		w, _ := api.do(t, http.MethodGet, tiersURL+"/quote?qty=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w, _ := api.do(t, http.MethodDelete, uomBase+"/tiers/"+small.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w, _ = api.do(t, http.MethodDelete, uomBase+"/tiers/"+small.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, env := api.do(t, http.MethodGet, tiersURL+"/quote?qty=3", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeNoApplicableTier, env.Error.Code)
	})
}
