package handler

import (
	"fmt"

	catalogapp "github.com/erp/uom/internal/application/catalog"
	pricingapp "github.com/erp/uom/internal/application/pricing"
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler exposes products, their packaging and their price tiers
type ProductHandler struct {
	BaseHandler
	packaging *catalogapp.PackagingService
	tiers     *pricingapp.TierService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(packaging *catalogapp.PackagingService, tiers *pricingapp.TierService) *ProductHandler {
	return &ProductHandler{packaging: packaging, tiers: tiers}
}

// Routes returns the product routes, mounted under /uom
func (h *ProductHandler) Routes() *router.DomainGroup {
	g := router.NewDomainGroup("products", "/uom")
	g.POST("/products", h.CreateProduct).
		GET("/products", h.ListProducts).
		GET("/products/:productId/packaging", h.ListPackaging).
		PUT("/products/:productId/packaging", h.PutPackaging).
		DELETE("/products/:productId/packaging/:uom", h.DeletePackaging).
		GET("/products/:productId/packaging/validate", h.ValidatePackaging).
		POST("/tiers", h.AddTier).
		DELETE("/tiers/:id", h.DeleteTier).
		GET("/products/:productId/price-lists/:priceListId/tiers", h.ListTiers).
		GET("/products/:productId/price-lists/:priceListId/tiers/validate", h.ValidateTiers).
		GET("/products/:productId/price-lists/:priceListId/tiers/quote", h.Quote)
	return g
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.packaging.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.packaging.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ListPackaging handles GET /products/:productId/packaging
func (h *ProductHandler) ListPackaging(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return
	}
	rows, err := h.packaging.ListPackaging(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// PutPackaging handles PUT /products/:productId/packaging
func (h *ProductHandler) PutPackaging(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return
	}
	var req catalogapp.UpsertPackagingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.packaging.UpsertPackaging(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// DeletePackaging handles DELETE /products/:productId/packaging/:uom
func (h *ProductHandler) DeletePackaging(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return
	}
	unit, err := valueobject.NewUnitCode(c.Param("uom"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	removed, err := h.packaging.RemovePackaging(c.Request.Context(), productID, unit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !removed {
		h.NotFound(c, fmt.Sprintf("Packaging %s not found", unit))
		return
	}
	h.NoContent(c)
}

// ValidatePackaging handles GET /products/:productId/packaging/validate
func (h *ProductHandler) ValidatePackaging(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return
	}
	report, err := h.packaging.ValidateProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// AddTier handles POST /tiers
func (h *ProductHandler) AddTier(c *gin.Context) {
	var req pricingapp.CreateTierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tier, err := h.tiers.AddTier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tier)
}

// DeleteTier handles DELETE /tiers/:id
func (h *ProductHandler) DeleteTier(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	removed, err := h.tiers.RemoveTier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !removed {
		h.NotFound(c, "Price tier not found")
		return
	}
	h.NoContent(c)
}

// ListTiers handles GET /products/:productId/price-lists/:priceListId/tiers
func (h *ProductHandler) ListTiers(c *gin.Context) {
	key, ok := h.tierSetKey(c)
	if !ok {
		return
	}
	tiers, err := h.tiers.ListTiers(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tiers)
}

// ValidateTiers handles GET /products/:productId/price-lists/:priceListId/tiers/validate
func (h *ProductHandler) ValidateTiers(c *gin.Context) {
	key, ok := h.tierSetKey(c)
	if !ok {
		return
	}
	report, err := h.tiers.ValidateSet(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Quote handles GET /products/:productId/price-lists/:priceListId/tiers/quote?qty=
func (h *ProductHandler) Quote(c *gin.Context) {
	key, ok := h.tierSetKey(c)
	if !ok {
		return
	}
	qty, err := decimal.NewFromString(c.Query("qty"))
	if err != nil || qty.IsNegative() {
		h.BadRequest(c, "qty must be a non-negative decimal")
		return
	}
	quote, err := h.tiers.Quote(c.Request.Context(), key, qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

func (h *ProductHandler) tierSetKey(c *gin.Context) (pricing.TierSetKey, bool) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return pricing.TierSetKey{}, false
	}
	priceListID, ok := h.ParseUUIDParam(c, "priceListId")
	if !ok {
		return pricing.TierSetKey{}, false
	}
	return pricing.TierSetKey{ProductID: productID, PriceListID: priceListID}, true
}
