package uom

import (
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// GraphOptions controls how a Graph is built from catalog data.
type GraphOptions struct {
	// SynthesizeBaseEdges adds one arc code -> BaseUnit per unit declaring a
	// FactorToBase. An explicit edge with the same endpoints takes precedence.
	SynthesizeBaseEdges bool
	// MaxDepth limits the number of hops a resolution may take. Zero means
	// no limit beyond the number of nodes.
	MaxDepth int
}

// DefaultGraphOptions returns the options used when none are configured.
func DefaultGraphOptions() GraphOptions {
	return GraphOptions{SynthesizeBaseEdges: true}
}

type arc struct {
	to     valueobject.UnitCode
	factor decimal.Decimal
}

// Graph is a directed, weighted view of the conversion edges. It is derived
// from a catalog snapshot and never mutated after BuildGraph returns, so it is
// safe to share between goroutines.
type Graph struct {
	adjacency map[valueobject.UnitCode][]arc
	units     map[valueobject.UnitCode]UnitDefinition
	arcCount  int
	maxDepth  int
}

// Resolution is the outcome of a successful factor lookup.
type Resolution struct {
	Factor decimal.Decimal
	// Path lists the units visited, starting with from and ending with to.
	Path []valueobject.UnitCode
}

// BuildGraph builds the conversion graph. Each edge becomes exactly one arc
// From -> To weighted by Factor; inverse arcs are never added. Edges with an
// empty endpoint or a non-positive factor cannot take part in resolution and
// are skipped; the Validator reports them.
func BuildGraph(units []UnitDefinition, edges []ConversionEdge, opts GraphOptions) *Graph {
	g := &Graph{
		adjacency: make(map[valueobject.UnitCode][]arc),
		units:     make(map[valueobject.UnitCode]UnitDefinition, len(units)),
		maxDepth:  opts.MaxDepth,
	}
	for _, u := range units {
		if _, dup := g.units[u.Code]; !dup {
			g.units[u.Code] = u
		}
	}

	seen := make(map[EdgeKey]struct{}, len(edges))
	for _, e := range edges {
		if e.From.IsZero() || e.To.IsZero() || !e.Factor.IsPositive() {
			continue
		}
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		g.addArc(e.From, e.To, e.Factor)
	}

	if opts.SynthesizeBaseEdges {
		for _, u := range units {
			if u.FactorToBase == nil || u.BaseUnit.IsZero() || u.Code.IsZero() || !u.FactorToBase.IsPositive() {
				continue
			}
			key := EdgeKey{From: u.Code, To: u.BaseUnit}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			g.addArc(u.Code, u.BaseUnit, *u.FactorToBase)
		}
	}

	return g
}

func (g *Graph) addArc(from, to valueobject.UnitCode, factor decimal.Decimal) {
	g.adjacency[from] = append(g.adjacency[from], arc{to: to, factor: factor})
	g.arcCount++
}

// ArcCount returns the number of arcs in the graph
func (g *Graph) ArcCount() int {
	return g.arcCount
}

// Unit returns the catalog definition for code, if the graph was built with one
func (g *Graph) Unit(code valueobject.UnitCode) (UnitDefinition, bool) {
	u, ok := g.units[code]
	return u, ok
}

// ResolveFactor returns the factor f such that qty_in_to = qty_in_from * f.
// from == to yields 1 without traversal. Otherwise a breadth-first search
// follows arcs in their declared direction only, so the first path found has
// the fewest hops; ties go to the edge declared first. The boolean is false
// when no directed path exists.
func (g *Graph) ResolveFactor(from, to valueobject.UnitCode) (decimal.Decimal, bool) {
	res, ok := g.Resolve(from, to)
	if !ok {
		return decimal.Zero, false
	}
	return res.Factor, true
}

// Resolve is ResolveFactor that also reports the path taken.
func (g *Graph) Resolve(from, to valueobject.UnitCode) (Resolution, bool) {
	if from == to {
		return Resolution{Factor: decimal.NewFromInt(1), Path: []valueobject.UnitCode{from}}, true
	}

	type step struct {
		code   valueobject.UnitCode
		factor decimal.Decimal
		depth  int
	}

	parent := map[valueobject.UnitCode]valueobject.UnitCode{}
	visited := map[valueobject.UnitCode]bool{from: true}
	queue := []step{{code: from, factor: decimal.NewFromInt(1)}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if g.maxDepth > 0 && cur.depth >= g.maxDepth {
			continue
		}

		for _, a := range g.adjacency[cur.code] {
			if visited[a.to] {
				continue
			}
			visited[a.to] = true
			parent[a.to] = cur.code
			factor := cur.factor.Mul(a.factor)
			if a.to == to {
				return Resolution{Factor: factor, Path: buildPath(parent, from, to)}, true
			}
			queue = append(queue, step{code: a.to, factor: factor, depth: cur.depth + 1})
		}
	}

	return Resolution{}, false
}

func buildPath(parent map[valueobject.UnitCode]valueobject.UnitCode, from, to valueobject.UnitCode) []valueobject.UnitCode {
	path := []valueobject.UnitCode{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Convert expresses quantity (in from) in to. The result is rounded to the
// target unit's Decimals when the target is a catalog unit.
func (g *Graph) Convert(quantity decimal.Decimal, from, to valueobject.UnitCode) (decimal.Decimal, bool) {
	factor, ok := g.ResolveFactor(from, to)
	if !ok {
		return decimal.Zero, false
	}
	converted := quantity.Mul(factor)
	if target, known := g.units[to]; known {
		converted = target.Round(converted)
	}
	return converted, true
}
