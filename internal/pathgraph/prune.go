package pathgraph

// Tags records, per surviving layered node, the original node identities
// known to occur on every surviving path from the source up to that node.
// After convergence no layered node carries its own name in its tag, and a
// predecessor whose tag contains a node's name can never lead into it.
type Tags map[LayeredNode]NodeSet

// Clone returns a deep copy of the tag mapping.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for n, set := range t {
		out[n] = set.clone()
	}
	return out
}

// Snapshot pairs a layered graph with the tags computed for it at one stage
// of the pruning refinement.
type Snapshot struct {
	Graph *LayeredGraph
	Tags  Tags
}

// Infeasible reports whether the snapshot holds no cycle-free path.
func (s Snapshot) Infeasible() bool {
	return s.Graph == nil || s.Graph.IsEmpty()
}

func emptySnapshot(length int) Snapshot {
	return Snapshot{Graph: NewLayeredGraph(length), Tags: make(Tags)}
}

// PruneInitial performs the seeding forward pass over the raw layered graph:
// processing layers in increasing depth, it deletes every node with no
// tag-consistent predecessor and assigns each survivor the intersection of
// its predecessors' histories. The input graph is not modified. If the
// target itself is deleted the whole query is infeasible and an empty
// snapshot is returned.
func PruneInitial(lg *LayeredGraph, src, tgt LayeredNode) Snapshot {
	if !lg.HasNode(src) || !lg.HasNode(tgt) {
		return emptySnapshot(lg.Length)
	}

	out := lg.Clone()
	tags := make(Tags)
	tags[src] = make(NodeSet)
	forwardPass(out, tags)

	if !out.HasNode(tgt) {
		return emptySnapshot(lg.Length)
	}
	return Snapshot{Graph: out, Tags: tags}
}

// forwardPass recomputes tags over the graph in place, deleting nodes whose
// admissible predecessor set is empty and edges whose predecessor history
// already contains the successor's identity. Depth-0 tags must be seeded by
// the caller. Reports whether anything was removed.
func forwardPass(out *LayeredGraph, tags Tags) bool {
	changed := false
	for d := 1; d <= out.Length; d++ {
		for _, n := range out.NodesAtDepth(d) {
			var allowed []LayeredNode
			for _, p := range append([]LayeredNode(nil), out.Predecessors(n)...) {
				if tags[p].Contains(n.Name) {
					// Every path through p already visited n; following
					// this edge would close a cycle.
					out.removeEdge(p, n)
					changed = true
					continue
				}
				allowed = append(allowed, p)
			}
			if len(allowed) == 0 {
				out.removeNode(n)
				delete(tags, n)
				changed = true
				continue
			}

			tag := tags[allowed[0]].clone()
			tag[allowed[0].Name] = struct{}{}
			for _, p := range allowed[1:] {
				other := tags[p].clone()
				other[p.Name] = struct{}{}
				tag.intersect(other)
			}
			tags[n] = tag
		}
	}
	return changed
}

// PruneToFixpoint iterates refinement passes over the seeded snapshot until
// one full pass removes nothing. Each pass first cascades away dead ends
// (nodes with no successors before the final layer, or no predecessors
// after the first) and then re-runs the forward tag computation on what is
// left. The snapshot taken after every pass is recorded, keyed by pass
// index; the map always carries at least keys 0..length-1, padded with the
// converged state, so callers can index any refinement stage.
func PruneToFixpoint(initial Snapshot, src, tgt LayeredNode, length int) map[int]Snapshot {
	snapshots := make(map[int]Snapshot)
	current := initial

	if current.Infeasible() {
		padSnapshots(snapshots, emptySnapshot(length), length)
		return snapshots
	}

	// Each pass removes at least one node or is the fixpoint, so the node
	// count bounds the number of passes.
	maxPasses := current.Graph.NodeCount() + 1
	round := 0
	for ; round < maxPasses; round++ {
		next := refine(current, src, tgt, length)
		snapshots[round] = next
		if next.Infeasible() {
			break
		}
		if next.Graph.Equal(current.Graph) {
			break
		}
		current = next
	}

	padSnapshots(snapshots, Final(snapshots), length)
	return snapshots
}

// refine runs one backward cull plus forward tag recomputation, returning a
// fresh snapshot. The input snapshot is left intact.
func refine(s Snapshot, src, tgt LayeredNode, length int) Snapshot {
	g := Prune(s.Graph, nil, src, tgt)
	if length > 0 && (len(g.Successors(src)) == 0 || len(g.Predecessors(tgt)) == 0) {
		return emptySnapshot(length)
	}

	tags := make(Tags)
	tags[src] = make(NodeSet)
	forwardPass(g, tags)
	if !g.HasNode(tgt) {
		return emptySnapshot(length)
	}
	return Snapshot{Graph: g, Tags: tags}
}

// Final returns the snapshot of the last recorded refinement pass.
func Final(snapshots map[int]Snapshot) Snapshot {
	last := -1
	for k := range snapshots {
		if k > last {
			last = k
		}
	}
	if last < 0 {
		return emptySnapshot(0)
	}
	return snapshots[last]
}

func padSnapshots(snapshots map[int]Snapshot, fill Snapshot, length int) {
	if _, ok := snapshots[0]; !ok {
		snapshots[0] = fill
	}
	for k := 0; k < length; k++ {
		if _, ok := snapshots[k]; !ok {
			snapshots[k] = fill
		}
	}
}
