package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/pathgraph"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{NumAccounts: 50, EdgeFactor: 2, PlantedLength: 3, CycleFraction: 0.2, Seed: 99}

	first, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if first.Source != second.Source || first.Target != second.Target {
		t.Fatalf("anchors differ across runs: %s->%s vs %s->%s",
			first.Source, first.Target, second.Source, second.Target)
	}
	if len(first.Edges) != len(second.Edges) {
		t.Fatalf("edge counts differ: %d vs %d", len(first.Edges), len(second.Edges))
	}
	for i := range first.Edges {
		if first.Edges[i] != second.Edges[i] {
			t.Fatalf("edge %d differs: %v vs %v", i, first.Edges[i], second.Edges[i])
		}
	}
}

func TestGeneratePlantedPathIsFeasible(t *testing.T) {
	cfg := Config{NumAccounts: 80, EdgeFactor: 1.5, PlantedLength: 4, CycleFraction: 0.2, Seed: 7}
	dataset, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	g := pathgraph.NewDirectedGraph()
	for _, id := range dataset.Accounts {
		g.AddNode(id)
	}
	for _, edge := range dataset.Edges {
		g.AddEdge(edge.From, edge.To)
	}

	snapshot, err := feasibleSnapshot(g, dataset.Source, dataset.Target, dataset.PlantedLength)
	if err != nil {
		t.Fatalf("pruning failed: %v", err)
	}
	if snapshot.Infeasible() {
		t.Fatalf("expected a feasible %d-hop query from %s to %s",
			dataset.PlantedLength, dataset.Source, dataset.Target)
	}

	src := pathgraph.LayeredNode{Depth: 0, Name: dataset.Source}
	tgt := pathgraph.LayeredNode{Depth: dataset.PlantedLength, Name: dataset.Target}
	paths, err := pathgraph.NewSampler(src, tgt, snapshot, pathgraph.SampleOptions{}).SamplePaths(1)
	if err != nil {
		t.Fatalf("sampling the planted path failed: %v", err)
	}
	if len(paths) != 1 || len(paths[0]) != dataset.PlantedLength+1 {
		t.Fatalf("unexpected sampled paths %v", paths)
	}
}

func feasibleSnapshot(g *pathgraph.DirectedGraph, source, target string, length int) (pathgraph.Snapshot, error) {
	fwd, bwd, err := pathgraph.ReachableSets(g, source, target, length)
	if err != nil {
		return pathgraph.Snapshot{}, err
	}
	lg, err := pathgraph.BuildPathsGraph(g, source, target, length, fwd, bwd)
	if err != nil {
		return pathgraph.Snapshot{}, err
	}
	src := pathgraph.LayeredNode{Depth: 0, Name: source}
	tgt := pathgraph.LayeredNode{Depth: length, Name: target}
	initial := pathgraph.PruneInitial(lg, src, tgt)
	snapshots := pathgraph.PruneToFixpoint(initial, src, tgt, length)
	return pathgraph.Final(snapshots), nil
}

func TestGenerateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(DefaultConfig()).Generate(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestWriteDataset(t *testing.T) {
	dir := t.TempDir()
	dataset := Dataset{
		Accounts:      []string{"acct-0000", "acct-0001"},
		Edges:         []domain.Edge{{From: "acct-0000", To: "acct-0001"}},
		Source:        "acct-0000",
		Target:        "acct-0001",
		PlantedLength: 1,
	}

	if err := WriteDataset(dir, dataset); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	for _, name := range []string{"accounts.json", "edges.json", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}
