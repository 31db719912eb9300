package uom

import (
	"fmt"
	"strings"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
)

// MsgConversionLoop is the single error recorded when the edges contain a
// directed cycle.
const MsgConversionLoop = "Conversion loop detected."

// MsgNoBaseUnit is the warning recorded when no unit is flagged as base.
const MsgNoBaseUnit = "No base unit defined."

// ValidatorOptions tunes optional checks.
type ValidatorOptions struct {
	// PerCategoryBaseWarnings additionally warns for every category that has
	// units but no base unit.
	PerCategoryBaseWarnings bool
}

// Validator runs structural and semantic checks over a catalog and its edges.
type Validator struct {
	opts ValidatorOptions
}

// NewValidator creates a validator with the given options
func NewValidator(opts ValidatorOptions) *Validator {
	return &Validator{opts: opts}
}

// Validate runs every check in order and never stops early, so one pass
// reports every problem:
//  1. unit structure (code, decimals, factor to base, base unit reference)
//  2. edge referential integrity and factor sign
//  3. directed cycle detection over the edges, reporting the first cycle only
//  4. base unit coverage (warning only)
func (v *Validator) Validate(units []UnitDefinition, edges []ConversionEdge) ValidationReport {
	report := NewValidationReport()

	known := make(map[valueobject.UnitCode]struct{}, len(units))
	for _, u := range units {
		if !u.Code.IsZero() {
			known[u.Code] = struct{}{}
		}
	}

	v.checkUnits(&report, units, known)
	v.checkEdges(&report, edges, known)
	if cycle := findFirstCycle(edges); cycle != nil {
		report.AddError(shared.CodeCycleDetected, formatCycle(cycle), MsgConversionLoop)
	}
	v.checkCoverage(&report, units)

	return report
}

// ValidateSnapshot validates a loaded snapshot
func (v *Validator) ValidateSnapshot(s Snapshot) ValidationReport {
	return v.Validate(s.Units, s.Edges)
}

func (v *Validator) checkUnits(report *ValidationReport, units []UnitDefinition, known map[valueobject.UnitCode]struct{}) {
	seen := make(map[valueobject.UnitCode]bool, len(units))
	for i, u := range units {
		subject := u.Code.String()
		if u.Code.IsZero() {
			subject = fmt.Sprintf("#%d", i+1)
			report.AddError(shared.CodeInvalidDefinition, subject, fmt.Sprintf("Unit #%d has no code.", i+1))
		} else if seen[u.Code] {
			report.AddError(shared.CodeInvalidDefinition, subject, fmt.Sprintf("Unit %s is defined more than once.", u.Code))
		}
		seen[u.Code] = true

		if u.Decimals < 0 {
			report.AddError(shared.CodeInvalidDefinition, subject, fmt.Sprintf("Unit %s has negative decimals.", subject))
		}
		if u.FactorToBase != nil && !u.FactorToBase.IsPositive() {
			report.AddError(shared.CodeInvalidDefinition, subject, fmt.Sprintf("Unit %s has a non-positive factor to base.", subject))
		}
		if u.FactorToBase != nil && u.BaseUnit.IsZero() {
			report.AddError(shared.CodeInvalidDefinition, subject, fmt.Sprintf("Unit %s has a factor to base but no base unit.", subject))
		}
		if !u.BaseUnit.IsZero() {
			if _, ok := known[u.BaseUnit]; !ok {
				report.AddError(shared.CodeDanglingReference, subject,
					fmt.Sprintf("Unit %s references unknown base unit %s.", subject, u.BaseUnit))
			}
		}
	}
}

func (v *Validator) checkEdges(report *ValidationReport, edges []ConversionEdge, known map[valueobject.UnitCode]struct{}) {
	for i, e := range edges {
		subject := e.String()
		for _, end := range []struct {
			code valueobject.UnitCode
			role string
		}{{e.From, "source"}, {e.To, "target"}} {
			if end.code.IsZero() {
				report.AddError(shared.CodeInvalidEdge, subject, fmt.Sprintf("Conversion #%d has no %s unit.", i+1, end.role))
				continue
			}
			if _, ok := known[end.code]; !ok {
				report.AddError(shared.CodeDanglingReference, subject,
					fmt.Sprintf("Conversion %s references unknown unit %s.", subject, end.code))
			}
		}
		if !e.Factor.IsPositive() {
			report.AddError(shared.CodeInvalidEdge, subject, fmt.Sprintf("Conversion %s has a non-positive factor.", subject))
		}
	}
}

func (v *Validator) checkCoverage(report *ValidationReport, units []UnitDefinition) {
	anyBase := false
	var categories []Category
	hasBase := map[Category]bool{}
	for _, u := range units {
		if _, seen := hasBase[u.Category]; !seen {
			categories = append(categories, u.Category)
			hasBase[u.Category] = false
		}
		if u.IsBase {
			anyBase = true
			hasBase[u.Category] = true
		}
	}

	if !anyBase {
		report.AddWarning(shared.CodeNoBaseUnitInCategory, "", MsgNoBaseUnit)
		return
	}
	if !v.opts.PerCategoryBaseWarnings {
		return
	}
	for _, c := range categories {
		if !hasBase[c] {
			name := string(c)
			if name == "" {
				name = "(uncategorized)"
			}
			report.AddWarning(shared.CodeNoBaseUnitInCategory, name, fmt.Sprintf("Category %s has no base unit.", name))
		}
	}
}

const (
	white = iota
	gray
	black
)

// findFirstCycle runs a coloured depth-first search over the directed graph
// formed by every edge endpoint and returns the first cycle found as the
// list of units on it, or nil. Nodes and arcs are visited in declaration
// order so the result is deterministic.
func findFirstCycle(edges []ConversionEdge) []valueobject.UnitCode {
	adjacency := map[valueobject.UnitCode][]valueobject.UnitCode{}
	var nodes []valueobject.UnitCode
	color := map[valueobject.UnitCode]int{}
	addNode := func(c valueobject.UnitCode) {
		if _, ok := color[c]; !ok {
			color[c] = white
			nodes = append(nodes, c)
		}
	}
	for _, e := range edges {
		if e.From.IsZero() || e.To.IsZero() {
			continue
		}
		addNode(e.From)
		addNode(e.To)
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}

	var stack []valueobject.UnitCode
	var cycle []valueobject.UnitCode

	var visit func(n valueobject.UnitCode) bool
	visit = func(n valueobject.UnitCode) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, next := range adjacency[n] {
			switch color[next] {
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle = append(append(cycle, stack[i:]...), next)
						break
					}
				}
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range nodes {
		if color[n] == white && visit(n) {
			return cycle
		}
	}
	return nil
}

func formatCycle(cycle []valueobject.UnitCode) string {
	parts := make([]string, len(cycle))
	for i, c := range cycle {
		parts[i] = c.String()
	}
	return strings.Join(parts, " -> ")
}
