package catalog

import (
	"fmt"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/uom"
)

// Packaging finding details
const (
	DetailInvalidConversion = "Invalid conversion"
	DetailNoPackaging       = "No packaging (optional)"
)

// ValidatePackaging checks every packaging row of one product against the
// unit catalog. A row passes when UnitsPer > 0 and BaseUOM is a catalog unit.
// A product without rows yields a single passing finding: packaging is
// optional. Only the catalog is consulted, never the conversion graph.
func ValidatePackaging(product ProductRef, rows []PackagingConversion, units uom.UnitLookup) []shared.Finding {
	if len(rows) == 0 {
		return []shared.Finding{{
			ID:     fmt.Sprintf("packaging.%s", product.ID),
			Group:  shared.FindingGroupPackaging,
			Label:  fmt.Sprintf("%s packaging", product.DisplayName()),
			OK:     true,
			Detail: DetailNoPackaging,
		}}
	}

	findings := make([]shared.Finding, 0, len(rows))
	for _, row := range rows {
		finding := shared.Finding{
			ID:     fmt.Sprintf("packaging.%s.%s", product.ID, row.UOM),
			Group:  shared.FindingGroupPackaging,
			Label:  fmt.Sprintf("%s packaging %s", product.DisplayName(), row.UOM),
			OK:     false,
			Detail: DetailInvalidConversion,
		}
		if isValidRow(row, units) {
			finding.OK = true
			finding.Detail = row.Describe()
		}
		findings = append(findings, finding)
	}
	return findings
}

func isValidRow(row PackagingConversion, units uom.UnitLookup) bool {
	if !row.UnitsPer.IsPositive() || row.BaseUOM.IsZero() {
		return false
	}
	_, ok := units.Lookup(row.BaseUOM)
	return ok
}
