package pricing

import (
	"fmt"
	"strings"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FindingID returns the stable id of the tier finding for a set
func FindingID(key TierSetKey) string {
	return fmt.Sprintf("pricing.%s.%s", key.ProductID, key.PriceListID)
}

// ValidateTiers checks per-tier bound sanity for one product and price list:
// every tier needs MinQty >= 0 and, when bounded, MaxQty >= MinQty. It does
// not look across tiers; see AnalyzeTierIntervals for overlaps and gaps.
// The detail is the tier count.
func ValidateTiers(key TierSetKey, tiers []PriceTier) shared.Finding {
	tierOK := true
	for _, t := range tiers {
		if !t.HasValidBounds() {
			tierOK = false
		}
	}

	return shared.Finding{
		ID:     FindingID(key),
		Group:  shared.FindingGroupPricing,
		Label:  fmt.Sprintf("Price tiers %s / %s", key.ProductID, key.PriceListID),
		OK:     tierOK,
		Detail: tierCount(len(tiers)),
	}
}

func tierCount(n int) string {
	if n == 1 {
		return "1 tier"
	}
	return fmt.Sprintf("%d tiers", n)
}

// IntervalIssueKind classifies a cross-tier problem
type IntervalIssueKind string

const (
	IntervalOverlap IntervalIssueKind = "overlap"
	IntervalGap     IntervalIssueKind = "gap"
)

// IntervalIssue describes two tiers whose ranges overlap or leave a hole.
type IntervalIssue struct {
	Kind    IntervalIssueKind `json:"kind"`
	First   PriceTier         `json:"first"`
	Second  PriceTier         `json:"second"`
	Message string            `json:"message"`
}

var integerStep = decimal.NewFromInt(1)

// AnalyzeTierIntervals sorts tiers by MinQty and compares each tier with the
// furthest-reaching tier before it. Two tiers covering the same quantity are
// an overlap; an integer-step hole between a closed tier and the next one is
// a gap. Tiers with invalid bounds are left to ValidateTiers and skipped.
func AnalyzeTierIntervals(tiers []PriceTier) []IntervalIssue {
	var valid []PriceTier
	for _, t := range SortTiers(tiers) {
		if t.HasValidBounds() {
			valid = append(valid, t)
		}
	}
	if len(valid) < 2 {
		return nil
	}

	var issues []IntervalIssue
	reach := valid[0]
	for _, next := range valid[1:] {
		switch {
		case reach.MaxQty == nil || !next.MinQty.GreaterThan(*reach.MaxQty):
			issues = append(issues, IntervalIssue{
				Kind:    IntervalOverlap,
				First:   reach,
				Second:  next,
				Message: fmt.Sprintf("Tiers %s and %s overlap.", describeRange(reach), describeRange(next)),
			})
		case next.MinQty.Sub(*reach.MaxQty).GreaterThan(integerStep):
			issues = append(issues, IntervalIssue{
				Kind:    IntervalGap,
				First:   reach,
				Second:  next,
				Message: fmt.Sprintf("Gap between tiers %s and %s.", describeRange(reach), describeRange(next)),
			})
		}

		if reach.MaxQty != nil && (next.MaxQty == nil || next.MaxQty.GreaterThan(*reach.MaxQty)) {
			reach = next
		}
	}
	return issues
}

// IntervalsFinding reports the result of AnalyzeTierIntervals as one finding
func IntervalsFinding(key TierSetKey, tiers []PriceTier) shared.Finding {
	issues := AnalyzeTierIntervals(tiers)
	finding := shared.Finding{
		ID:     FindingID(key) + ".intervals",
		Group:  shared.FindingGroupPricing,
		Label:  fmt.Sprintf("Price tier intervals %s / %s", key.ProductID, key.PriceListID),
		OK:     len(issues) == 0,
		Detail: "No overlaps or gaps",
	}
	if len(issues) > 0 {
		messages := make([]string, len(issues))
		for i, issue := range issues {
			messages[i] = issue.Message
		}
		finding.Detail = strings.Join(messages, " ")
	}
	return finding
}

func describeRange(t PriceTier) string {
	if t.MaxQty == nil {
		return fmt.Sprintf("[%s, ∞)", t.MinQty)
	}
	return fmt.Sprintf("[%s, %s]", t.MinQty, *t.MaxQty)
}
