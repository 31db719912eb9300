package handler

import (
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/shopspring/decimal"
)

// UnitRequest is the body of PUT /units/:code; the code comes from the path
type UnitRequest struct {
	Name         string           `json:"name" binding:"max=100"`
	Category     string           `json:"category" binding:"max=50"`
	IsBase       bool             `json:"is_base"`
	FactorToBase *decimal.Decimal `json:"factor_to_base"`
	BaseUnit     string           `json:"base_unit" binding:"omitempty,unitcode"`
	Decimals     int              `json:"decimals" binding:"min=0,max=12"`
}

// ToDefinition builds the unit definition for code
func (r UnitRequest) ToDefinition(code valueobject.UnitCode) (uom.UnitDefinition, error) {
	def := uom.UnitDefinition{
		Code:         code,
		Name:         r.Name,
		Category:     uom.Category(r.Category),
		IsBase:       r.IsBase,
		FactorToBase: r.FactorToBase,
		Decimals:     r.Decimals,
	}
	if r.BaseUnit != "" {
		base, err := valueobject.NewUnitCode(r.BaseUnit)
		if err != nil {
			return uom.UnitDefinition{}, err
		}
		def.BaseUnit = base
	}
	return def, nil
}

// EdgeRequest is the body of PUT /conversions: 1 From = Factor To
type EdgeRequest struct {
	From   string          `json:"from_unit" binding:"required,unitcode"`
	To     string          `json:"to_unit" binding:"required,unitcode"`
	Factor decimal.Decimal `json:"factor"`
}

// ToEdge converts the request to a domain edge
func (r EdgeRequest) ToEdge() (uom.ConversionEdge, error) {
	from, to, err := parsePair(r.From, r.To)
	if err != nil {
		return uom.ConversionEdge{}, err
	}
	return uom.ConversionEdge{From: from, To: to, Factor: r.Factor}, nil
}

// ResolveRequest is the body of POST /resolve
type ResolveRequest struct {
	From string `json:"from" binding:"required,unitcode"`
	To   string `json:"to" binding:"required,unitcode"`
}

// ResolveResponse carries the factor such that 1 From = Factor To
type ResolveResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Factor decimal.Decimal `json:"factor"`
	Path   []string        `json:"path"`
}

// ConvertRequest is the body of POST /convert
type ConvertRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	From     string          `json:"from" binding:"required,unitcode"`
	To       string          `json:"to" binding:"required,unitcode"`
}

// ConvertResponse is the converted quantity, rounded to the target unit
type ConvertResponse struct {
	Quantity  decimal.Decimal `json:"quantity"`
	From      string          `json:"from"`
	Converted decimal.Decimal `json:"converted"`
	To        string          `json:"to"`
}

func toResolveResponse(from, to valueobject.UnitCode, res uom.Resolution) ResolveResponse {
	path := make([]string, len(res.Path))
	for i, code := range res.Path {
		path[i] = code.String()
	}
	return ResolveResponse{From: from.String(), To: to.String(), Factor: res.Factor, Path: path}
}

func parsePair(rawFrom, rawTo string) (valueobject.UnitCode, valueobject.UnitCode, error) {
	from, err := valueobject.NewUnitCode(rawFrom)
	if err != nil {
		return "", "", err
	}
	to, err := valueobject.NewUnitCode(rawTo)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}
