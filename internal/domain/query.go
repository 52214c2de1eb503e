package domain

// Weighting names for PathQuery.Weighting.
const (
	WeightingCompletions = "completions"
	WeightingUniform     = "uniform"
)

// PathQuery describes one cycle-free path extraction request: simple
// directed paths of exactly Length hops from Source to Target.
type PathQuery struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Length int    `json:"length"`
	// Count is the number of paths to sample; ignored by enumeration.
	Count int `json:"count"`
	// Unique discards duplicate draws when sampling.
	Unique bool `json:"unique"`
	// Weighting is "completions" (default) or "uniform".
	Weighting string `json:"weighting,omitempty"`
	// Limit caps enumeration output; 0 means unbounded.
	Limit int `json:"limit,omitempty"`
}

// PathResult carries extracted paths plus pruning diagnostics.
type PathResult struct {
	Paths [][]string `json:"paths"`
	// Feasible is false when no cycle-free path of the requested length
	// exists; Paths is then empty and that is a valid outcome, not an
	// error.
	Feasible bool `json:"feasible"`
	// PrunePasses is the number of refinement passes run to reach the
	// fixpoint.
	PrunePasses int `json:"prunePasses"`
	// RetainedNodes and RetainedEdges size the pruned layered graph.
	RetainedNodes int `json:"retainedNodes"`
	RetainedEdges int `json:"retainedEdges"`
	// Completions is the layered-walk completion count below the source,
	// an upper bound on the number of distinct simple paths.
	Completions float64 `json:"completions"`
}
