// Package pathgraph extracts cycle-free directed paths of an exact length
// from a directed graph that may itself contain cycles.
//
// The pipeline is: ReachableSets computes per-hop forward/backward level
// sets, BuildPathsGraph lifts them into a layered graph over (depth, node)
// pairs, PruneInitial and PruneToFixpoint remove every layered node that
// cannot sit on a simple source-to-target path, and Sampler draws weighted
// random paths from the pruned result.
package pathgraph

import "sort"

// Graph is the directed-graph contract required by the engine. Callers may
// supply any implementation; DirectedGraph is the bundled adjacency-map one.
type Graph interface {
	HasNode(id string) bool
	HasEdge(from, to string) bool
	Successors(id string) []string
	Predecessors(id string) []string
}

// DirectedGraph is an in-memory directed graph keyed by opaque string IDs.
type DirectedGraph struct {
	succ map[string][]string
	pred map[string][]string
}

// NewDirectedGraph returns an empty DirectedGraph.
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		succ: make(map[string][]string),
		pred: make(map[string][]string),
	}
}

// AddNode registers a node without edges. Adding twice is a no-op.
func (g *DirectedGraph) AddNode(id string) {
	if _, ok := g.succ[id]; !ok {
		g.succ[id] = nil
		g.pred[id] = nil
	}
}

// AddEdge inserts a directed edge, registering both endpoints. Parallel
// edges are collapsed; self-loops are allowed.
func (g *DirectedGraph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, v := range g.succ[from] {
		if v == to {
			return
		}
	}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

// HasNode reports whether the node is present.
func (g *DirectedGraph) HasNode(id string) bool {
	_, ok := g.succ[id]
	return ok
}

// HasEdge reports whether the directed edge from->to exists.
func (g *DirectedGraph) HasEdge(from, to string) bool {
	for _, v := range g.succ[from] {
		if v == to {
			return true
		}
	}
	return false
}

// Successors returns the out-neighbours of a node.
func (g *DirectedGraph) Successors(id string) []string {
	return g.succ[id]
}

// Predecessors returns the in-neighbours of a node.
func (g *DirectedGraph) Predecessors(id string) []string {
	return g.pred[id]
}

// Nodes returns all node IDs in sorted order.
func (g *DirectedGraph) Nodes() []string {
	nodes := make([]string, 0, len(g.succ))
	for id := range g.succ {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

// NodeCount returns the number of nodes.
func (g *DirectedGraph) NodeCount() int {
	return len(g.succ)
}

// EdgeCount returns the number of directed edges.
func (g *DirectedGraph) EdgeCount() int {
	count := 0
	for _, targets := range g.succ {
		count += len(targets)
	}
	return count
}

// NodeSet is a set of original node identities.
type NodeSet map[string]struct{}

// NewNodeSet builds a set from the given IDs.
func NewNodeSet(ids ...string) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s NodeSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in sorted order.
func (s NodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s NodeSet) clone() NodeSet {
	out := make(NodeSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// intersect keeps only members present in other.
func (s NodeSet) intersect(other NodeSet) {
	for id := range s {
		if _, ok := other[id]; !ok {
			delete(s, id)
		}
	}
}
