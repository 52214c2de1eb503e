// Package generator produces synthetic cyclic transfer graphs for local
// development and load testing. Generated datasets always contain at least
// one simple source-to-target path of the requested length, so sampling
// queries against them are feasible out of the box.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/anvitha/pathtrace/internal/domain"
)

// Dataset is a generated transfer graph plus a feasible query anchor pair.
type Dataset struct {
	Accounts []string      `json:"accounts"`
	Edges    []domain.Edge `json:"edges"`
	Source   string        `json:"source"`
	Target   string        `json:"target"`
	// PlantedLength is the hop count of the guaranteed source-to-target path.
	PlantedLength int `json:"planted_length"`
}

// Generator builds random directed graphs with tunable cyclicity.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New constructs a Generator from the provided configuration.
func New(cfg Config) *Generator {
	cfg = cfg.normalized()
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Generate produces a dataset, honoring context cancellation between stages.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	accounts := make([]string, g.cfg.NumAccounts)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("acct-%04d", i)
	}

	edgeSet := make(map[domain.Edge]struct{})

	// Plant the anchor path first so the dataset is always queryable.
	plantLen := g.cfg.PlantedLength
	source := accounts[0]
	target := source
	if plantLen > 0 {
		perm := g.rng.Perm(len(accounts))[:plantLen+1]
		for i := 0; i < plantLen; i++ {
			edgeSet[domain.Edge{From: accounts[perm[i]], To: accounts[perm[i+1]]}] = struct{}{}
		}
		source = accounts[perm[0]]
		target = accounts[perm[plantLen]]
	}

	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}

	// Random background edges.
	total := int(float64(len(accounts)) * g.cfg.EdgeFactor)
	for i := 0; i < total; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Dataset{}, err
			}
		}
		from := accounts[g.rng.Intn(len(accounts))]
		to := accounts[g.rng.Intn(len(accounts))]
		if from == to {
			continue
		}
		edgeSet[domain.Edge{From: from, To: to}] = struct{}{}
	}

	// Back edges keep the graph cyclic so pruning has work to do.
	for i := 1; i < len(accounts); i++ {
		if g.rng.Float64() >= g.cfg.CycleFraction {
			continue
		}
		ancestor := accounts[g.rng.Intn(i)]
		edgeSet[domain.Edge{From: accounts[i], To: ancestor}] = struct{}{}
	}

	edges := make([]domain.Edge, 0, len(edgeSet))
	for edge := range edgeSet {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	return Dataset{
		Accounts:      accounts,
		Edges:         edges,
		Source:        source,
		Target:        target,
		PlantedLength: plantLen,
	}, nil
}
