package pathgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectedGraph(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		g := NewDirectedGraph()
		assert.Equal(t, 0, g.NodeCount())
		assert.Equal(t, 0, g.EdgeCount())
		assert.False(t, g.HasNode("A"))
	})

	t.Run("edges register endpoints", func(t *testing.T) {
		g := NewDirectedGraph()
		g.AddEdge("A", "B")
		g.AddEdge("B", "C")

		assert.Equal(t, []string{"A", "B", "C"}, g.Nodes())
		assert.True(t, g.HasEdge("A", "B"))
		assert.False(t, g.HasEdge("B", "A"))
		assert.Equal(t, []string{"B"}, g.Successors("A"))
		assert.Equal(t, []string{"A"}, g.Predecessors("B"))
	})

	t.Run("parallel edges collapse", func(t *testing.T) {
		g := NewDirectedGraph()
		g.AddEdge("A", "B")
		g.AddEdge("A", "B")
		assert.Equal(t, 1, g.EdgeCount())
	})

	t.Run("self loops allowed", func(t *testing.T) {
		g := NewDirectedGraph()
		g.AddEdge("A", "A")
		assert.True(t, g.HasEdge("A", "A"))
	})
}

func TestNodeSet(t *testing.T) {
	s := NewNodeSet("B", "A")
	assert.True(t, s.Contains("A"))
	assert.False(t, s.Contains("C"))
	assert.Equal(t, []string{"A", "B"}, s.Sorted())

	clone := s.clone()
	clone["C"] = struct{}{}
	assert.False(t, s.Contains("C"))

	s.intersect(NewNodeSet("A", "C"))
	assert.Equal(t, []string{"A"}, s.Sorted())
}
