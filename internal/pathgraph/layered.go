package pathgraph

import (
	"fmt"
	"sort"
)

// LayeredNode identifies an original node pinned to a hop depth. Two layered
// nodes with the same name at different depths are distinct entities, which
// is what lets the raw layered graph represent revisits before pruning.
type LayeredNode struct {
	Depth int
	Name  string
}

func (n LayeredNode) String() string {
	return fmt.Sprintf("(%d, %s)", n.Depth, n.Name)
}

// LayeredGraph is a DAG over layered nodes: every edge goes from depth d to
// depth d+1. Built once per (source, target, length) query.
type LayeredGraph struct {
	Length int
	nodes  map[LayeredNode]struct{}
	succ   map[LayeredNode][]LayeredNode
	pred   map[LayeredNode][]LayeredNode
}

// NewLayeredGraph returns an empty layered graph for the given path length.
func NewLayeredGraph(length int) *LayeredGraph {
	return &LayeredGraph{
		Length: length,
		nodes:  make(map[LayeredNode]struct{}),
		succ:   make(map[LayeredNode][]LayeredNode),
		pred:   make(map[LayeredNode][]LayeredNode),
	}
}

// AddNode registers a layered node.
func (lg *LayeredGraph) AddNode(n LayeredNode) {
	lg.nodes[n] = struct{}{}
}

// AddEdge inserts an edge between two already-registered layered nodes.
func (lg *LayeredGraph) AddEdge(from, to LayeredNode) {
	lg.succ[from] = append(lg.succ[from], to)
	lg.pred[to] = append(lg.pred[to], from)
}

// HasNode reports whether the layered node survived into this graph.
func (lg *LayeredGraph) HasNode(n LayeredNode) bool {
	_, ok := lg.nodes[n]
	return ok
}

// Successors returns the out-neighbours at depth n.Depth+1.
func (lg *LayeredGraph) Successors(n LayeredNode) []LayeredNode {
	return lg.succ[n]
}

// Predecessors returns the in-neighbours at depth n.Depth-1.
func (lg *LayeredGraph) Predecessors(n LayeredNode) []LayeredNode {
	return lg.pred[n]
}

// Nodes returns every layered node ordered by depth then name.
func (lg *LayeredGraph) Nodes() []LayeredNode {
	out := make([]LayeredNode, 0, len(lg.nodes))
	for n := range lg.nodes {
		out = append(out, n)
	}
	sortLayered(out)
	return out
}

// NodesAtDepth returns the surviving nodes of one layer, sorted by name.
func (lg *LayeredGraph) NodesAtDepth(depth int) []LayeredNode {
	var out []LayeredNode
	for n := range lg.nodes {
		if n.Depth == depth {
			out = append(out, n)
		}
	}
	sortLayered(out)
	return out
}

// NodeCount returns the number of surviving layered nodes.
func (lg *LayeredGraph) NodeCount() int {
	return len(lg.nodes)
}

// EdgeCount returns the number of surviving layered edges.
func (lg *LayeredGraph) EdgeCount() int {
	count := 0
	for _, targets := range lg.succ {
		count += len(targets)
	}
	return count
}

// IsEmpty reports whether no layered node survived.
func (lg *LayeredGraph) IsEmpty() bool {
	return len(lg.nodes) == 0
}

// Clone returns a deep copy sharing no state with the receiver.
func (lg *LayeredGraph) Clone() *LayeredGraph {
	out := NewLayeredGraph(lg.Length)
	for n := range lg.nodes {
		out.nodes[n] = struct{}{}
	}
	for n, targets := range lg.succ {
		out.succ[n] = append([]LayeredNode(nil), targets...)
	}
	for n, sources := range lg.pred {
		out.pred[n] = append([]LayeredNode(nil), sources...)
	}
	return out
}

// Equal reports whether both graphs have identical node and edge sets.
func (lg *LayeredGraph) Equal(other *LayeredGraph) bool {
	if lg.Length != other.Length || len(lg.nodes) != len(other.nodes) {
		return false
	}
	for n := range lg.nodes {
		if !other.HasNode(n) {
			return false
		}
	}
	if lg.EdgeCount() != other.EdgeCount() {
		return false
	}
	for n, targets := range lg.succ {
		theirs := NewNodeSet()
		for _, t := range other.succ[n] {
			theirs[t.String()] = struct{}{}
		}
		if len(theirs) != len(targets) {
			return false
		}
		for _, t := range targets {
			if !theirs.Contains(t.String()) {
				return false
			}
		}
	}
	return true
}

// removeNode drops a node and all incident edges in place. Internal only:
// the exported pruning operations always work on fresh copies.
func (lg *LayeredGraph) removeNode(n LayeredNode) {
	delete(lg.nodes, n)
	for _, p := range lg.pred[n] {
		lg.succ[p] = withoutLayered(lg.succ[p], n)
	}
	for _, s := range lg.succ[n] {
		lg.pred[s] = withoutLayered(lg.pred[s], n)
	}
	delete(lg.succ, n)
	delete(lg.pred, n)
}

// removeEdge drops a single edge in place.
func (lg *LayeredGraph) removeEdge(from, to LayeredNode) {
	lg.succ[from] = withoutLayered(lg.succ[from], to)
	lg.pred[to] = withoutLayered(lg.pred[to], from)
}

// BuildPathsGraph lifts the original graph into the layered graph of all
// walks of exactly length hops from source to target: node (d, n) is kept
// iff n sits in forward level d and backward level length-d, and an edge
// (d,u)->(d+1,v) is kept iff u->v exists and both endpoints survive. This
// over-approximates simple paths; pruning narrows it down.
func BuildPathsGraph(g Graph, source, target string, length int, forward, backward Levels) (*LayeredGraph, error) {
	if length < 0 {
		return nil, ErrInvalidLength
	}
	if !g.HasNode(source) || !g.HasNode(target) {
		return nil, ErrInvalidEndpoint
	}
	if len(forward) <= length || len(backward) <= length {
		return nil, fmt.Errorf("reachability levels cover %d hops, need %d: %w",
			min(len(forward), len(backward))-1, length, ErrInvalidLength)
	}

	lg := NewLayeredGraph(length)
	if length == 0 {
		if source == target {
			lg.AddNode(LayeredNode{Depth: 0, Name: source})
		}
		return lg, nil
	}

	for d := 0; d <= length; d++ {
		for name := range forward[d] {
			if backward[length-d].Contains(name) {
				lg.AddNode(LayeredNode{Depth: d, Name: name})
			}
		}
	}

	// No walk of the requested length exists unless both anchors survive.
	src := LayeredNode{Depth: 0, Name: source}
	tgt := LayeredNode{Depth: length, Name: target}
	if !lg.HasNode(src) || !lg.HasNode(tgt) {
		return NewLayeredGraph(length), nil
	}

	for d := 0; d < length; d++ {
		for _, u := range lg.NodesAtDepth(d) {
			for _, v := range g.Successors(u.Name) {
				next := LayeredNode{Depth: d + 1, Name: v}
				if lg.HasNode(next) {
					lg.AddEdge(u, next)
				}
			}
		}
	}
	return lg, nil
}

// Prune returns a copy of the layered graph with the given nodes removed and
// any node left without predecessors (depth > 0) or successors (depth <
// length) cascaded away, the source and target anchors excepted. The input
// graph is left untouched.
func Prune(lg *LayeredGraph, remove []LayeredNode, src, tgt LayeredNode) *LayeredGraph {
	out := lg.Clone()
	for _, n := range remove {
		out.removeNode(n)
	}
	for {
		var dangling []LayeredNode
		for n := range out.nodes {
			if n == src || n == tgt {
				continue
			}
			if len(out.pred[n]) == 0 || (n.Depth < out.Length && len(out.succ[n]) == 0) {
				dangling = append(dangling, n)
			}
		}
		if len(dangling) == 0 {
			break
		}
		for _, n := range dangling {
			out.removeNode(n)
		}
	}
	return out
}

func sortLayered(nodes []LayeredNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Depth != nodes[j].Depth {
			return nodes[i].Depth < nodes[j].Depth
		}
		return nodes[i].Name < nodes[j].Name
	})
}

func withoutLayered(nodes []LayeredNode, drop LayeredNode) []LayeredNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}
