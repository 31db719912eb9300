package uom

import (
	"testing"

	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code(s string) valueobject.UnitCode {
	return valueobject.MustNewUnitCode(s)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func edge(from, to, factor string) ConversionEdge {
	return ConversionEdge{From: code(from), To: code(to), Factor: dec(factor)}
}

func weightUnits() []UnitDefinition {
	return []UnitDefinition{
		{Code: code("KG"), Name: "Kilogram", Category: CategoryWeight, IsBase: true, Decimals: 3},
		{Code: code("G"), Name: "Gram", Category: CategoryWeight, Decimals: 0},
		{Code: code("TON"), Name: "Tonne", Category: CategoryWeight, Decimals: 6},
	}
}

func TestGraph_ResolveFactor_SameUnit(t *testing.T) {
	g := BuildGraph(weightUnits(), nil, DefaultGraphOptions())

	for _, u := range weightUnits() {
		factor, ok := g.ResolveFactor(u.Code, u.Code)
		require.True(t, ok, u.Code)
		assert.True(t, factor.Equal(decimal.NewFromInt(1)), u.Code)
	}

	// Holds even for codes the graph has never seen
	factor, ok := g.ResolveFactor(code("XYZ"), code("XYZ"))
	require.True(t, ok)
	assert.True(t, factor.Equal(decimal.NewFromInt(1)))
}

func TestGraph_ResolveFactor_MultiHop(t *testing.T) {
	edges := []ConversionEdge{
		edge("G", "KG", "0.001"),
		edge("KG", "TON", "0.001"),
	}
	g := BuildGraph(weightUnits(), edges, DefaultGraphOptions())

	factor, ok := g.ResolveFactor(code("G"), code("TON"))
	require.True(t, ok)
	assert.True(t, factor.Equal(dec("0.000001")), "got %s", factor)

	res, ok := g.Resolve(code("G"), code("TON"))
	require.True(t, ok)
	assert.Equal(t, []valueobject.UnitCode{"G", "KG", "TON"}, res.Path)
}

func TestGraph_ResolveFactor_DirectedOnly(t *testing.T) {
	edges := []ConversionEdge{edge("G", "KG", "0.001")}
	g := BuildGraph(weightUnits(), edges, DefaultGraphOptions())

	_, ok := g.ResolveFactor(code("KG"), code("G"))
	assert.False(t, ok, "reverse direction must not resolve without an explicit edge")

	_, ok = g.ResolveFactor(code("G"), code("TON"))
	assert.False(t, ok)
}

func TestGraph_ResolveFactor_ShortestPathWins(t *testing.T) {
	units := []UnitDefinition{
		{Code: code("A")}, {Code: code("B")}, {Code: code("C")}, {Code: code("D")},
	}
	edges := []ConversionEdge{
		edge("A", "B", "2"),
		edge("B", "C", "3"),
		edge("C", "D", "5"),
		edge("A", "D", "7"),
	}
	g := BuildGraph(units, edges, GraphOptions{})

	factor, ok := g.ResolveFactor(code("A"), code("D"))
	require.True(t, ok)
	assert.True(t, factor.Equal(decimal.NewFromInt(7)), "direct edge has fewer hops, got %s", factor)
}

func TestGraph_ResolveFactor_TieBreakByDeclarationOrder(t *testing.T) {
	units := []UnitDefinition{{Code: code("A")}, {Code: code("B")}, {Code: code("C")}, {Code: code("D")}}
	edges := []ConversionEdge{
		edge("A", "B", "2"),
		edge("A", "C", "3"),
		edge("B", "D", "5"),
		edge("C", "D", "11"),
	}
	g := BuildGraph(units, edges, GraphOptions{})

	factor, ok := g.ResolveFactor(code("A"), code("D"))
	require.True(t, ok)
	assert.True(t, factor.Equal(decimal.NewFromInt(10)), "got %s", factor)
}

func TestGraph_ResolveFactor_TerminatesOnCycle(t *testing.T) {
	units := []UnitDefinition{{Code: code("A")}, {Code: code("B")}, {Code: code("C")}, {Code: code("Z")}}
	edges := []ConversionEdge{
		edge("A", "B", "2"),
		edge("B", "C", "3"),
		edge("C", "A", "0.1667"),
	}
	g := BuildGraph(units, edges, GraphOptions{})

	_, ok := g.ResolveFactor(code("A"), code("Z"))
	assert.False(t, ok)

	factor, ok := g.ResolveFactor(code("C"), code("B"))
	require.True(t, ok)
	assert.True(t, factor.Equal(dec("0.3334")), "got %s", factor)
}

func TestGraph_MaxDepth(t *testing.T) {
	edges := []ConversionEdge{
		edge("G", "KG", "0.001"),
		edge("KG", "TON", "0.001"),
	}
	g := BuildGraph(weightUnits(), edges, GraphOptions{MaxDepth: 1})

	_, ok := g.ResolveFactor(code("G"), code("TON"))
	assert.False(t, ok)

	_, ok = g.ResolveFactor(code("G"), code("KG"))
	assert.True(t, ok)
}

func TestGraph_SynthesizedBaseEdges(t *testing.T) {
	units := []UnitDefinition{
		{Code: code("KG"), Category: CategoryWeight, IsBase: true, Decimals: 3},
		{Code: code("G"), Category: CategoryWeight, FactorToBase: FactorPtr(dec("0.001")), BaseUnit: code("KG")},
	}

	t.Run("enabled", func(t *testing.T) {
		g := BuildGraph(units, nil, GraphOptions{SynthesizeBaseEdges: true})
		factor, ok := g.ResolveFactor(code("G"), code("KG"))
		require.True(t, ok)
		assert.True(t, factor.Equal(dec("0.001")))
		assert.Equal(t, 1, g.ArcCount())

		_, ok = g.ResolveFactor(code("KG"), code("G"))
		assert.False(t, ok, "synthesized arcs are directed too")
	})

	t.Run("disabled", func(t *testing.T) {
		g := BuildGraph(units, nil, GraphOptions{})
		_, ok := g.ResolveFactor(code("G"), code("KG"))
		assert.False(t, ok)
	})

	t.Run("explicit edge wins", func(t *testing.T) {
		g := BuildGraph(units, []ConversionEdge{edge("G", "KG", "0.002")}, GraphOptions{SynthesizeBaseEdges: true})
		factor, ok := g.ResolveFactor(code("G"), code("KG"))
		require.True(t, ok)
		assert.True(t, factor.Equal(dec("0.002")))
		assert.Equal(t, 1, g.ArcCount())
	})
}

func TestGraph_SkipsUnusableEdges(t *testing.T) {
	edges := []ConversionEdge{
		edge("G", "KG", "0"),
		{From: code("G"), To: "", Factor: dec("1")},
	}
	g := BuildGraph(weightUnits(), edges, GraphOptions{})

	assert.Equal(t, 0, g.ArcCount())
	_, ok := g.ResolveFactor(code("G"), code("KG"))
	assert.False(t, ok)
}

func TestGraph_Convert(t *testing.T) {
	edges := []ConversionEdge{
		edge("G", "KG", "0.001"),
		edge("KG", "G", "1000"),
	}
	g := BuildGraph(weightUnits(), edges, GraphOptions{})

	tests := []struct {
		name     string
		quantity string
		from     string
		to       string
		want     string
		wantOK   bool
	}{
		{name: "grams to kilograms rounds to 3 decimals", quantity: "2500.4", from: "G", to: "KG", want: "2.5", wantOK: true},
		{name: "kilograms to grams rounds to whole grams", quantity: "1.2345", from: "KG", to: "G", want: "1235", wantOK: true},
		{name: "same unit", quantity: "7", from: "KG", to: "KG", want: "7", wantOK: true},
		{name: "no path", quantity: "1", from: "KG", to: "TON", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.Convert(dec(tt.quantity), code(tt.from), code(tt.to))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
			}
		})
	}
}
