package pathgraph

import (
	"math/rand"
	"sort"
)

// Weighting selects how the sampler chooses among admissible successors.
type Weighting int

const (
	// WeightByCompletions draws successors proportionally to the number of
	// walk completions below them, computed by a single downward counting
	// pass over the pruned graph. The counts ignore residual tag conflicts,
	// so the weighting is exact whenever the fixpoint graph is conflict
	// free and a close approximation otherwise.
	WeightByCompletions Weighting = iota
	// WeightUniform draws uniformly among admissible successors. Simpler,
	// and biased towards sparse branches.
	WeightUniform
)

// SampleOptions tunes a Sampler. The zero value means completion-count
// weighting, the default retry ceiling, and duplicate draws allowed.
type SampleOptions struct {
	Weighting Weighting
	// MaxAttempts bounds the number of walks tried per delivered path.
	// Zero selects DefaultMaxAttempts.
	MaxAttempts int
	// Unique discards duplicate paths instead of returning independent
	// draws.
	Unique bool
	// Rand supplies the randomness source; nil falls back to the shared
	// global source.
	Rand *rand.Rand
}

// DefaultMaxAttempts is the retry ceiling applied per requested path when
// SampleOptions.MaxAttempts is zero.
const DefaultMaxAttempts = 1000

// Sampler draws cycle-free source-to-target paths from a pruned layered
// graph. It only reads the graph and tags, so a single pruned snapshot can
// back many samplers concurrently.
type Sampler struct {
	graph       *LayeredGraph
	src, tgt    LayeredNode
	counts      map[LayeredNode]float64
	weighting   Weighting
	maxAttempts int
	unique      bool
	rng         *rand.Rand
}

// NewSampler prepares a sampler over the final pruned snapshot. The
// completion-count pass runs once here and is reused across all draws.
func NewSampler(src, tgt LayeredNode, s Snapshot, opts SampleOptions) *Sampler {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	sampler := &Sampler{
		graph:       s.Graph,
		src:         src,
		tgt:         tgt,
		weighting:   opts.Weighting,
		maxAttempts: maxAttempts,
		unique:      opts.Unique,
		rng:         opts.Rand,
	}
	if sampler.graph != nil && opts.Weighting == WeightByCompletions {
		sampler.counts = countCompletions(sampler.graph, tgt)
	}
	return sampler
}

// countCompletions walks the layers from the target down, counting the
// number of distinct walk completions from each layered node.
func countCompletions(lg *LayeredGraph, tgt LayeredNode) map[LayeredNode]float64 {
	counts := make(map[LayeredNode]float64, lg.NodeCount())
	if lg.HasNode(tgt) {
		counts[tgt] = 1
	}
	for d := lg.Length - 1; d >= 0; d-- {
		for _, n := range lg.NodesAtDepth(d) {
			total := 0.0
			for _, s := range lg.Successors(n) {
				total += counts[s]
			}
			counts[n] = total
		}
	}
	return counts
}

// CountCompletions returns the completion count below the source node. It
// counts surviving layered walks, which can exceed the number of simple
// paths when residual tag conflicts remain after pruning.
func (s *Sampler) CountCompletions() float64 {
	if s.counts == nil {
		return countCompletions(s.graph, s.tgt)[s.src]
	}
	return s.counts[s.src]
}

// SamplePaths draws count paths. Every returned path has length Length+1,
// starts at the source, ends at the target, repeats no node, and projects
// onto edges of the original graph. Walks that dead-end (possible because
// pruning snapshots at different refinement depths can retain nodes with no
// tag-consistent continuation) are discarded and resampled; exceeding the
// retry ceiling surfaces an ExhaustedError wrapping ErrSamplingExhausted.
func (s *Sampler) SamplePaths(count int) ([][]string, error) {
	if count <= 0 {
		return nil, nil
	}
	if s.graph == nil || s.graph.IsEmpty() || !s.graph.HasNode(s.src) || !s.graph.HasNode(s.tgt) {
		return nil, &ExhaustedError{}
	}

	paths := make([][]string, 0, count)
	seen := make(map[string]struct{})
	dupStreak := 0
	for len(paths) < count {
		path, err := s.samplePath()
		if err != nil {
			return nil, err
		}
		if s.unique {
			key := joinPath(path)
			if _, dup := seen[key]; dup {
				dupStreak++
				if dupStreak >= s.maxAttempts {
					// The graph likely holds fewer distinct paths than
					// requested.
					return nil, &ExhaustedError{Attempts: s.maxAttempts}
				}
				continue
			}
			seen[key] = struct{}{}
			dupStreak = 0
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// samplePath performs one bounded-retry walk from source to target.
func (s *Sampler) samplePath() ([]string, error) {
	var lastDeadEnd LayeredNode
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		path, deadEnd, ok := s.walk()
		if ok {
			return path, nil
		}
		lastDeadEnd = deadEnd
	}
	return nil, &ExhaustedError{DeadEnd: lastDeadEnd, Attempts: s.maxAttempts}
}

// walk attempts a single source-to-target traversal, filtering successors
// against the accumulated prefix so no original node repeats.
func (s *Sampler) walk() ([]string, LayeredNode, bool) {
	current := s.src
	path := make([]string, 0, s.graph.Length+1)
	path = append(path, current.Name)
	visited := NewNodeSet(current.Name)

	for current.Depth < s.graph.Length {
		candidates := s.admissible(current, visited)
		if len(candidates) == 0 {
			return nil, current, false
		}
		next := s.pick(candidates)
		path = append(path, next.Name)
		visited[next.Name] = struct{}{}
		current = next
	}
	if current != s.tgt {
		return nil, current, false
	}
	return path, LayeredNode{}, true
}

func (s *Sampler) admissible(current LayeredNode, visited NodeSet) []LayeredNode {
	var out []LayeredNode
	for _, next := range s.graph.Successors(current) {
		if visited.Contains(next.Name) {
			continue
		}
		out = append(out, next)
	}
	return out
}

// pick draws one successor according to the configured weighting.
func (s *Sampler) pick(candidates []LayeredNode) LayeredNode {
	if len(candidates) == 1 {
		return candidates[0]
	}
	if s.weighting == WeightUniform || s.counts == nil {
		return candidates[s.intn(len(candidates))]
	}

	total := 0.0
	for _, c := range candidates {
		total += s.counts[c]
	}
	if total <= 0 {
		return candidates[s.intn(len(candidates))]
	}
	draw := s.float64() * total
	for _, c := range candidates {
		draw -= s.counts[c]
		if draw < 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

func (s *Sampler) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

func (s *Sampler) float64() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

// EnumeratePaths lists every simple path surviving in the pruned graph by
// depth-first traversal with prefix filtering, in lexicographic order. A
// positive limit caps the result; limit <= 0 enumerates everything.
func (s *Sampler) EnumeratePaths(limit int) [][]string {
	if s.graph == nil || s.graph.IsEmpty() || !s.graph.HasNode(s.src) || !s.graph.HasNode(s.tgt) {
		return nil
	}
	var results [][]string
	prefix := []string{s.src.Name}
	visited := NewNodeSet(s.src.Name)
	s.enumerate(s.src, prefix, visited, limit, &results)
	return results
}

func (s *Sampler) enumerate(current LayeredNode, prefix []string, visited NodeSet, limit int, results *[][]string) {
	if limit > 0 && len(*results) >= limit {
		return
	}
	if current.Depth == s.graph.Length {
		if current == s.tgt {
			*results = append(*results, append([]string(nil), prefix...))
		}
		return
	}
	next := append([]LayeredNode(nil), s.graph.Successors(current)...)
	sortLayered(next)
	for _, n := range next {
		if visited.Contains(n.Name) {
			continue
		}
		visited[n.Name] = struct{}{}
		s.enumerate(n, append(prefix, n.Name), visited, limit, results)
		delete(visited, n.Name)
	}
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "\x00"
		}
		out += p
	}
	return out
}

// SortPaths orders paths lexicographically, mainly for stable test output.
func SortPaths(paths [][]string) {
	sort.Slice(paths, func(i, j int) bool {
		return joinPath(paths[i]) < joinPath(paths[j])
	})
}
