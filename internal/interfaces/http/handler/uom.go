package handler

import (
	"fmt"

	uomapp "github.com/erp/uom/internal/application/uom"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// UOMHandler exposes the unit catalog, its validator and the resolver
type UOMHandler struct {
	BaseHandler
	catalog *uomapp.CatalogService
}

// NewUOMHandler creates a new UOMHandler
func NewUOMHandler(catalog *uomapp.CatalogService) *UOMHandler {
	return &UOMHandler{catalog: catalog}
}

// Routes returns the catalog routes, mounted under /uom
func (h *UOMHandler) Routes() *router.DomainGroup {
	g := router.NewDomainGroup("uom", "/uom")
	g.GET("/units", h.ListUnits).
		GET("/units/:code", h.GetUnit).
		PUT("/units/:code", h.PutUnit).
		DELETE("/units/:code", h.DeleteUnit).
		GET("/conversions", h.ListConversions).
		PUT("/conversions", h.PutConversion).
		DELETE("/conversions/:from/:to", h.DeleteConversion).
		GET("/validate", h.Validate).
		POST("/resolve", h.Resolve).
		POST("/convert", h.Convert)
	return g
}

// ListUnits handles GET /units
func (h *UOMHandler) ListUnits(c *gin.Context) {
	units, err := h.catalog.ListUnits(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}

// GetUnit handles GET /units/:code
func (h *UOMHandler) GetUnit(c *gin.Context) {
	code, ok := h.unitParam(c, "code")
	if !ok {
		return
	}
	unit, err := h.catalog.GetUnit(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// PutUnit handles PUT /units/:code
func (h *UOMHandler) PutUnit(c *gin.Context) {
	code, ok := h.unitParam(c, "code")
	if !ok {
		return
	}
	var req UnitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	def, err := req.ToDefinition(code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	unit, err := h.catalog.UpsertUnit(c.Request.Context(), def)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// DeleteUnit handles DELETE /units/:code
func (h *UOMHandler) DeleteUnit(c *gin.Context) {
	code, ok := h.unitParam(c, "code")
	if !ok {
		return
	}
	removed, err := h.catalog.RemoveUnit(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !removed {
		h.NotFound(c, fmt.Sprintf("Unit %s not found", code))
		return
	}
	h.NoContent(c)
}

// ListConversions handles GET /conversions
func (h *UOMHandler) ListConversions(c *gin.Context) {
	edges, err := h.catalog.ListEdges(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, edges)
}

// PutConversion handles PUT /conversions
func (h *UOMHandler) PutConversion(c *gin.Context) {
	var req EdgeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	edge, err := req.ToEdge()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	saved, err := h.catalog.UpsertEdge(c.Request.Context(), edge)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// DeleteConversion handles DELETE /conversions/:from/:to
func (h *UOMHandler) DeleteConversion(c *gin.Context) {
	from, ok := h.unitParam(c, "from")
	if !ok {
		return
	}
	to, ok := h.unitParam(c, "to")
	if !ok {
		return
	}
	removed, err := h.catalog.RemoveEdge(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !removed {
		h.NotFound(c, fmt.Sprintf("Conversion %s -> %s not found", from, to))
		return
	}
	h.NoContent(c)
}

// Validate handles GET /validate. A failing report is still a 200.
func (h *UOMHandler) Validate(c *gin.Context) {
	report, err := h.catalog.Validate(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Resolve handles POST /resolve
func (h *UOMHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	from, to, err := parsePair(req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	res, err := h.catalog.Resolve(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toResolveResponse(from, to, res))
}

// Convert handles POST /convert
func (h *UOMHandler) Convert(c *gin.Context) {
	var req ConvertRequest
	if !h.BindJSON(c, &req) {
		return
	}
	from, to, err := parsePair(req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	converted, err := h.catalog.Convert(c.Request.Context(), req.Quantity, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ConvertResponse{
		Quantity:  req.Quantity,
		From:      from.String(),
		Converted: converted,
		To:        to.String(),
	})
}

func (h *UOMHandler) unitParam(c *gin.Context, name string) (valueobject.UnitCode, bool) {
	code, err := valueobject.NewUnitCode(c.Param(name))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return code, true
}
