package pathgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLayered(t *testing.T, g *DirectedGraph, source, target string, length int) *LayeredGraph {
	t.Helper()
	fwd, bwd, err := ReachableSets(g, source, target, length)
	require.NoError(t, err)
	lg, err := BuildPathsGraph(g, source, target, length, fwd, bwd)
	require.NoError(t, err)
	return lg
}

func ln(depth int, name string) LayeredNode {
	return LayeredNode{Depth: depth, Name: name}
}

func TestBuildPathsGraph(t *testing.T) {
	t.Run("linear chain keeps one node per layer", func(t *testing.T) {
		g := chainGraph("A", "B", "C", "D")
		lg := buildLayered(t, g, "A", "D", 3)

		assert.Equal(t, []LayeredNode{ln(0, "A"), ln(1, "B"), ln(2, "C"), ln(3, "D")}, lg.Nodes())
		assert.Equal(t, 3, lg.EdgeCount())
		assert.Equal(t, []LayeredNode{ln(1, "B")}, lg.Successors(ln(0, "A")))
	})

	t.Run("idempotent construction", func(t *testing.T) {
		g := NewDirectedGraph()
		g.AddEdge("A", "B")
		g.AddEdge("B", "A")
		g.AddEdge("B", "C")
		g.AddEdge("C", "D")
		g.AddEdge("A", "D")

		first := buildLayered(t, g, "A", "D", 3)
		second := buildLayered(t, g, "A", "D", 3)
		assert.True(t, first.Equal(second))
	})

	t.Run("cycle admits revisits before pruning", func(t *testing.T) {
		g := NewDirectedGraph()
		g.AddEdge("A", "B")
		g.AddEdge("B", "A")
		g.AddEdge("B", "C")
		g.AddEdge("C", "D")
		g.AddEdge("A", "D")

		lg := buildLayered(t, g, "A", "D", 3)
		// A reappears at depth 2: the raw graph is the all-walks graph.
		assert.True(t, lg.HasNode(ln(2, "A")))
		assert.True(t, lg.HasNode(ln(2, "C")))
	})

	t.Run("zero length", func(t *testing.T) {
		g := chainGraph("A", "B")
		fwd, bwd, err := ReachableSets(g, "A", "A", 0)
		require.NoError(t, err)
		lg, err := BuildPathsGraph(g, "A", "A", 0, fwd, bwd)
		require.NoError(t, err)
		assert.Equal(t, []LayeredNode{ln(0, "A")}, lg.Nodes())

		fwd, bwd, err = ReachableSets(g, "A", "B", 0)
		require.NoError(t, err)
		lg, err = BuildPathsGraph(g, "A", "B", 0, fwd, bwd)
		require.NoError(t, err)
		assert.True(t, lg.IsEmpty())
	})

	t.Run("unreachable target yields empty graph", func(t *testing.T) {
		g := NewDirectedGraph()
		g.AddEdge("A", "B")
		g.AddNode("Z")
		lg := buildLayered(t, g, "A", "Z", 3)
		assert.True(t, lg.IsEmpty())
	})

	t.Run("negative length", func(t *testing.T) {
		g := chainGraph("A", "B")
		_, err := BuildPathsGraph(g, "A", "B", -2, Levels{}, Levels{})
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("shallow levels rejected", func(t *testing.T) {
		g := chainGraph("A", "B", "C")
		fwd, bwd, err := ReachableSets(g, "A", "C", 1)
		require.NoError(t, err)
		_, err = BuildPathsGraph(g, "A", "C", 2, fwd, bwd)
		assert.ErrorIs(t, err, ErrInvalidLength)
	})
}

func TestPrune(t *testing.T) {
	g := NewDirectedGraph()
	g.AddEdge("S", "A")
	g.AddEdge("S", "B")
	g.AddEdge("A", "S")
	g.AddEdge("B", "C")
	g.AddEdge("C", "D")
	g.AddEdge("D", "T")
	g.AddEdge("B", "T")

	length := 4
	raw := buildLayered(t, g, "S", "T", length)
	rawNodes := raw.Nodes()
	rawEdges := raw.EdgeCount()

	toPrune := []LayeredNode{ln(2, "S")}
	pruned := Prune(raw, toPrune, ln(0, "S"), ln(length, "T"))

	// The input graph and node list stay untouched.
	assert.Equal(t, []LayeredNode{ln(2, "S")}, toPrune)
	assert.Equal(t, rawNodes, raw.Nodes())
	assert.Equal(t, rawEdges, raw.EdgeCount())

	// Removing (2,S) cascades away (1,A) and (3,B), leaving the chain
	// S -> B -> C -> D -> T.
	assert.Equal(t, []LayeredNode{
		ln(0, "S"), ln(1, "B"), ln(2, "C"), ln(3, "D"), ln(4, "T"),
	}, pruned.Nodes())
	assert.Equal(t, 4, pruned.EdgeCount())
	assert.Equal(t, []LayeredNode{ln(1, "B")}, pruned.Successors(ln(0, "S")))
}
