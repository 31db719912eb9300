package pricing

import (
	"context"
	"fmt"

	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Options tunes tier validation
type Options struct {
	// ReportIntervals adds an overlap/gap finding per tier set.
	ReportIntervals bool
}

// CreateTierRequest represents a request to add a quantity break
type CreateTierRequest struct {
	ProductID   uuid.UUID        `json:"product_id" yaml:"product_id" binding:"required"`
	PriceListID uuid.UUID        `json:"price_list_id" yaml:"price_list_id" binding:"required"`
	MinQty      decimal.Decimal  `json:"min_qty" yaml:"min_qty"`
	MaxQty      *decimal.Decimal `json:"max_qty,omitempty" yaml:"max_qty,omitempty"`
	UnitPrice   decimal.Decimal  `json:"unit_price" yaml:"unit_price"`
	UOM         string           `json:"uom,omitempty" yaml:"uom,omitempty" binding:"omitempty,unitcode"`
}

// TierSetReport is the validation of one (product, price list) tier set
type TierSetReport struct {
	Key       pricing.TierSetKey      `json:"key"`
	Finding   shared.Finding          `json:"finding"`
	Intervals *shared.Finding         `json:"intervals,omitempty"`
	Issues    []pricing.IntervalIssue `json:"issues,omitempty"`
}

// Quote is the price of a quantity under a tier set
type Quote struct {
	Tier     pricing.PriceTier `json:"tier"`
	Quantity decimal.Decimal   `json:"quantity"`
	Total    decimal.Decimal   `json:"total"`
}

// TierService administers price tiers and validates tier sets
type TierService struct {
	tiers  pricing.TierRepository
	opts   Options
	logger *zap.Logger
}

// NewTierService creates a new TierService
func NewTierService(tiers pricing.TierRepository, opts Options, logger *zap.Logger) *TierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TierService{tiers: tiers, opts: opts, logger: logger}
}

// AddTier creates a tier. Overlaps with existing tiers are allowed and show
// up in interval analysis.
func (s *TierService) AddTier(ctx context.Context, req CreateTierRequest) (*pricing.PriceTier, error) {
	key := pricing.TierSetKey{ProductID: req.ProductID, PriceListID: req.PriceListID}
	tier, err := pricing.NewPriceTier(key, req.MinQty, req.MaxQty, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if req.UOM != "" {
		unit, err := valueobject.NewUnitCode(req.UOM)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_UNIT_CODE", err.Error())
		}
		tier.UOM = unit
	}
	if err := s.tiers.Save(ctx, tier); err != nil {
		return nil, fmt.Errorf("failed to save price tier: %w", err)
	}
	s.logger.Info("Price tier added",
		zap.String("product_id", key.ProductID.String()),
		zap.String("price_list_id", key.PriceListID.String()),
		zap.String("min_qty", tier.MinQty.String()),
	)
	return tier, nil
}

// ListTiers returns one tier set ordered by MinQty
func (s *TierService) ListTiers(ctx context.Context, key pricing.TierSetKey) ([]pricing.PriceTier, error) {
	return s.tiers.FindBySet(ctx, key)
}

// RemoveTier deletes a tier, reporting whether it existed
func (s *TierService) RemoveTier(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.tiers.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("Price tier removed", zap.String("tier_id", id.String()))
	}
	return removed, nil
}

// ValidateSet validates one tier set. The interval analysis is always
// returned in Issues; it becomes a finding only when ReportIntervals is on.
func (s *TierService) ValidateSet(ctx context.Context, key pricing.TierSetKey) (*TierSetReport, error) {
	tiers, err := s.tiers.FindBySet(ctx, key)
	if err != nil {
		return nil, err
	}
	report := &TierSetReport{
		Key:     key,
		Finding: pricing.ValidateTiers(key, tiers),
		Issues:  pricing.AnalyzeTierIntervals(tiers),
	}
	if s.opts.ReportIntervals {
		intervals := pricing.IntervalsFinding(key, tiers)
		report.Intervals = &intervals
	}
	return report, nil
}

// ValidateAll returns the findings of every tier set, in order of first
// appearance, each followed by its interval finding when enabled.
func (s *TierService) ValidateAll(ctx context.Context) ([]shared.Finding, error) {
	all, err := s.tiers.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list price tiers: %w", err)
	}

	keys, groups := pricing.GroupBySet(all)
	findings := make([]shared.Finding, 0, len(keys))
	for _, key := range keys {
		findings = append(findings, pricing.ValidateTiers(key, groups[key]))
		if s.opts.ReportIntervals {
			findings = append(findings, pricing.IntervalsFinding(key, groups[key]))
		}
	}
	return findings, nil
}

// Quote prices quantity with the tier that applies to it
func (s *TierService) Quote(ctx context.Context, key pricing.TierSetKey, quantity decimal.Decimal) (*Quote, error) {
	tiers, err := s.tiers.FindBySet(ctx, key)
	if err != nil {
		return nil, err
	}
	tier, ok := pricing.FindApplicableTier(tiers, quantity)
	if !ok {
		return nil, shared.NewDomainError("NO_APPLICABLE_TIER",
			fmt.Sprintf("No price tier covers quantity %s", quantity))
	}
	return &Quote{Tier: tier, Quantity: quantity, Total: tier.UnitPrice.Mul(quantity)}, nil
}
