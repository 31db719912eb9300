package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapshotSource provides the unit catalog packaging is checked against
type SnapshotSource interface {
	Snapshot(ctx context.Context) (uom.Snapshot, error)
}

// ProductReport is the packaging check of one product
type ProductReport struct {
	Product  catalog.ProductRef `json:"product"`
	Findings []shared.Finding   `json:"findings"`
}

// PackagingService handles products and their packaging conversions and
// checks packaging against the unit catalog.
type PackagingService struct {
	products  catalog.ProductRepository
	packaging catalog.PackagingRepository
	units     SnapshotSource
	logger    *zap.Logger
}

// NewPackagingService creates a new PackagingService
func NewPackagingService(
	products catalog.ProductRepository,
	packaging catalog.PackagingRepository,
	units SnapshotSource,
	logger *zap.Logger,
) *PackagingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackagingService{
		products:  products,
		packaging: packaging,
		units:     units,
		logger:    logger,
	}
}

// CreateProduct registers a product
func (s *PackagingService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	baseUnit, err := valueobject.NewUnitCode(req.BaseUnit)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_UNIT", err.Error())
	}
	product, err := catalog.NewProduct(req.Code, req.Name, baseUnit)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product %s: %w", product.Code, err)
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("code", product.Code))

	response := ToProductResponse(product)
	return &response, nil
}

// ListProducts returns every product
func (s *PackagingService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, nil
}

// ListPackaging lists the packaging rows of a product
func (s *PackagingService) ListPackaging(ctx context.Context, productID uuid.UUID) ([]PackagingResponse, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.packaging.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]PackagingResponse, len(rows))
	for i := range rows {
		responses[i] = ToPackagingResponse(&rows[i])
	}
	return responses, nil
}

// UpsertPackaging creates or replaces the row for (product, uom). The base
// unit is not required to exist yet; ValidateProduct reports it when missing.
func (s *PackagingService) UpsertPackaging(ctx context.Context, productID uuid.UUID, req UpsertPackagingRequest) (*PackagingResponse, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	packUnit, err := valueobject.NewUnitCode(req.UOM)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_UNIT_CODE", err.Error())
	}
	baseUnit, err := valueobject.NewUnitCode(req.BaseUOM)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_UNIT_CODE", err.Error())
	}
	if packUnit == baseUnit {
		return nil, shared.NewDomainError("DUPLICATE_UNIT_CODE", "Packaging unit cannot be the same as its base unit")
	}

	row, err := catalog.NewPackagingConversion(productID, packUnit, req.UnitsPer, baseUnit)
	if err != nil {
		return nil, err
	}
	if err := s.packaging.Save(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to save packaging %s: %w", row.Describe(), err)
	}
	s.logger.Info("Packaging upserted",
		zap.String("product_id", productID.String()),
		zap.String("conversion", row.Describe()),
	)

	response := ToPackagingResponse(row)
	return &response, nil
}

// RemovePackaging deletes the row for (product, uom), reporting whether it existed
func (s *PackagingService) RemovePackaging(ctx context.Context, productID uuid.UUID, unit valueobject.UnitCode) (bool, error) {
	removed, err := s.packaging.Delete(ctx, productID, unit.String())
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("Packaging removed", zap.String("product_id", productID.String()), zap.String("uom", unit.String()))
	}
	return removed, nil
}

// ValidateProduct checks one product's packaging against the current catalog
func (s *PackagingService) ValidateProduct(ctx context.Context, productID uuid.UUID) (*ProductReport, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.units.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.packaging.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductReport{
		Product:  product.Ref(),
		Findings: catalog.ValidatePackaging(product.Ref(), rows, snapshot),
	}, nil
}

// ValidateAll checks the packaging of every product against snapshot.
// Products without rows are included with their "no packaging" finding.
func (s *PackagingService) ValidateAll(ctx context.Context, snapshot uom.UnitLookup) ([]shared.Finding, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	rows, err := s.packaging.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packaging: %w", err)
	}

	byProduct := make(map[uuid.UUID][]catalog.PackagingConversion, len(products))
	for _, row := range rows {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row)
	}

	var findings []shared.Finding
	for _, p := range products {
		findings = append(findings, catalog.ValidatePackaging(p.Ref(), byProduct[p.ID], snapshot)...)
		delete(byProduct, p.ID)
	}
	// rows whose product is gone are still reported, under their bare id
	for _, row := range rows {
		if orphan, ok := byProduct[row.ProductID]; ok {
			findings = append(findings, catalog.ValidatePackaging(catalog.ProductRef{ID: row.ProductID}, orphan, snapshot)...)
			delete(byProduct, row.ProductID)
		}
	}
	return findings, nil
}

func (s *PackagingService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return product, nil
}
