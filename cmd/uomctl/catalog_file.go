package main

import (
	"context"
	"fmt"
	"os"

	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/erp/uom/internal/infrastructure/persistence/memstore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// idNamespace derives stable ids from product codes and price list names so
// that finding ids stay the same between runs over the same file
var idNamespace = uuid.MustParse("6f1d3c7e-52a4-4c59-9a55-0f1f0f0a7c11")

type catalogFile struct {
	Units       []unitEntry       `yaml:"units"`
	Conversions []conversionEntry `yaml:"conversions"`
	Products    []productEntry    `yaml:"products"`
	Tiers       []tierEntry       `yaml:"tiers"`
}

type unitEntry struct {
	Code         string           `yaml:"code"`
	Name         string           `yaml:"name"`
	Category     string           `yaml:"category"`
	IsBase       bool             `yaml:"is_base"`
	FactorToBase *decimal.Decimal `yaml:"factor_to_base"`
	BaseUnit     string           `yaml:"base_unit"`
	Decimals     int              `yaml:"decimals"`
}

type conversionEntry struct {
	From   string          `yaml:"from"`
	To     string          `yaml:"to"`
	Factor decimal.Decimal `yaml:"factor"`
}

type productEntry struct {
	Code      string           `yaml:"code"`
	Name      string           `yaml:"name"`
	BaseUnit  string           `yaml:"base_unit"`
	Packaging []packagingEntry `yaml:"packaging"`
}

type packagingEntry struct {
	UOM      string          `yaml:"uom"`
	UnitsPer decimal.Decimal `yaml:"units_per"`
	BaseUOM  string          `yaml:"base_uom"`
}

type tierEntry struct {
	Product   string           `yaml:"product"`
	PriceList string           `yaml:"price_list"`
	MinQty    decimal.Decimal  `yaml:"min_qty"`
	MaxQty    *decimal.Decimal `yaml:"max_qty"`
	UnitPrice decimal.Decimal  `yaml:"unit_price"`
	UOM       string           `yaml:"uom"`
}

func readCatalogFile(path string) (*catalogFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// load writes the file into store. Only unparseable codes are rejected;
// everything else is left for the validators to report. The store keeps the
// last entry for a repeated unit code or conversion pair, so the returned
// snapshot lists every entry in file order for the catalog validator.
func (f *catalogFile) load(ctx context.Context, store *memstore.Store) (uom.Snapshot, error) {
	units := make([]uom.UnitDefinition, 0, len(f.Units))
	edges := make([]uom.ConversionEdge, 0, len(f.Conversions))

	for _, u := range f.Units {
		code, err := valueobject.NewUnitCode(u.Code)
		if err != nil {
			return uom.Snapshot{}, fmt.Errorf("unit %q: %w", u.Code, err)
		}
		def := uom.UnitDefinition{
			Code:         code,
			Name:         u.Name,
			Category:     uom.NormalizeCategory(u.Category),
			IsBase:       u.IsBase,
			FactorToBase: u.FactorToBase,
			Decimals:     u.Decimals,
		}
		if def.BaseUnit, err = optionalCode(u.BaseUnit); err != nil {
			return uom.Snapshot{}, fmt.Errorf("unit %s base_unit: %w", code, err)
		}
		if err := store.SaveUnit(ctx, def); err != nil {
			return uom.Snapshot{}, err
		}
		units = append(units, def)
	}

	for i, c := range f.Conversions {
		from, err := valueobject.NewUnitCode(c.From)
		if err != nil {
			return uom.Snapshot{}, fmt.Errorf("conversion %d from: %w", i+1, err)
		}
		to, err := valueobject.NewUnitCode(c.To)
		if err != nil {
			return uom.Snapshot{}, fmt.Errorf("conversion %d to: %w", i+1, err)
		}
		edge := uom.ConversionEdge{From: from, To: to, Factor: c.Factor}
		if err := store.SaveEdge(ctx, edge); err != nil {
			return uom.Snapshot{}, err
		}
		edges = append(edges, edge)
	}
	snapshot := uom.NewSnapshot(units, edges)

	products := make(map[string]uuid.UUID, len(f.Products))
	for _, p := range f.Products {
		base, err := valueobject.NewUnitCode(p.BaseUnit)
		if err != nil {
			return uom.Snapshot{}, fmt.Errorf("product %s base_unit: %w", p.Code, err)
		}
		product := &catalog.Product{ID: productID(p.Code), Code: p.Code, Name: p.Name, BaseUnit: base}
		if err := store.Products().Save(ctx, product); err != nil {
			return uom.Snapshot{}, err
		}
		products[p.Code] = product.ID

		for _, pk := range p.Packaging {
			unit, err := valueobject.NewUnitCode(pk.UOM)
			if err != nil {
				return uom.Snapshot{}, fmt.Errorf("product %s packaging: %w", p.Code, err)
			}
			baseUOM, err := valueobject.NewUnitCode(pk.BaseUOM)
			if err != nil {
				return uom.Snapshot{}, fmt.Errorf("product %s packaging %s base_uom: %w", p.Code, unit, err)
			}
			row := &catalog.PackagingConversion{
				ID:        stableID("packaging:" + p.Code + ":" + unit.String()),
				ProductID: product.ID,
				UOM:       unit,
				UnitsPer:  pk.UnitsPer,
				BaseUOM:   baseUOM,
			}
			if err := store.Packaging().Save(ctx, row); err != nil {
				return uom.Snapshot{}, err
			}
		}
	}

	for i, t := range f.Tiers {
		productID, ok := products[t.Product]
		if !ok {
			return uom.Snapshot{}, fmt.Errorf("tier %d: unknown product %q", i+1, t.Product)
		}
		unit, err := optionalCode(t.UOM)
		if err != nil {
			return uom.Snapshot{}, fmt.Errorf("tier %d uom: %w", i+1, err)
		}
		tier := &pricing.PriceTier{
			ID:          stableID(fmt.Sprintf("tier:%d", i)),
			ProductID:   productID,
			PriceListID: priceListID(t.PriceList),
			MinQty:      t.MinQty,
			MaxQty:      t.MaxQty,
			UnitPrice:   t.UnitPrice,
			UOM:         unit,
		}
		if err := store.Tiers().Save(ctx, tier); err != nil {
			return uom.Snapshot{}, err
		}
	}
	return snapshot, nil
}

// productID returns the id a product code gets when loaded
func productID(code string) uuid.UUID {
	return stableID("product:" + code)
}

// priceListID accepts a uuid or any name
func priceListID(name string) uuid.UUID {
	if id, err := uuid.Parse(name); err == nil {
		return id
	}
	return stableID("price_list:" + name)
}

func stableID(name string) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(name))
}

func optionalCode(raw string) (valueobject.UnitCode, error) {
	if raw == "" {
		return "", nil
	}
	return valueobject.NewUnitCode(raw)
}
