package pathgraph

// Levels holds, per hop count 0..maxDepth, the set of nodes touched by some
// walk of exactly that many hops. A node may appear in several levels since
// walks are free to revisit nodes.
type Levels []NodeSet

// Contains reports whether the node appears at the given depth.
func (l Levels) Contains(depth int, id string) bool {
	if depth < 0 || depth >= len(l) {
		return false
	}
	return l[depth].Contains(id)
}

// ReachableSets computes forward levels from source and backward levels from
// target, truncated at maxDepth. forward[d] is the set of nodes reachable
// from source by some walk of exactly d hops; backward[d] is the set of
// nodes from which target is reachable in exactly d hops.
func ReachableSets(g Graph, source, target string, maxDepth int) (Levels, Levels, error) {
	if maxDepth < 0 {
		return nil, nil, ErrInvalidLength
	}
	if !g.HasNode(source) || !g.HasNode(target) {
		return nil, nil, ErrInvalidEndpoint
	}

	forward := expandLevels(maxDepth, NewNodeSet(source), g.Successors)
	backward := expandLevels(maxDepth, NewNodeSet(target), g.Predecessors)
	return forward, backward, nil
}

// expandLevels performs the level-by-level multi-source expansion. Once a
// frontier empties, every deeper level stays empty.
func expandLevels(maxDepth int, frontier NodeSet, step func(string) []string) Levels {
	levels := make(Levels, maxDepth+1)
	levels[0] = frontier
	for d := 1; d <= maxDepth; d++ {
		next := make(NodeSet)
		for id := range levels[d-1] {
			for _, nb := range step(id) {
				next[nb] = struct{}{}
			}
		}
		levels[d] = next
		if len(next) == 0 {
			for rest := d + 1; rest <= maxDepth; rest++ {
				levels[rest] = make(NodeSet)
			}
			break
		}
	}
	return levels
}
