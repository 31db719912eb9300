package shared

// Finding groups
const (
	FindingGroupUOM       = "uom"
	FindingGroupPackaging = "packaging"
	FindingGroupPricing   = "pricing"
)

// Finding is one row of a data-health checklist. ID is stable across runs
// for the same underlying record so that consumers can diff reports.
type Finding struct {
	ID     string `json:"id"`
	Group  string `json:"group"`
	Label  string `json:"label"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// CountFindings returns how many findings passed and failed.
func CountFindings(findings []Finding) (ok, fail int) {
	for _, f := range findings {
		if f.OK {
			ok++
		} else {
			fail++
		}
	}
	return ok, fail
}
