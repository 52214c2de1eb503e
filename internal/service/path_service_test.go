package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/anvitha/pathtrace/internal/config"
	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/pathgraph"
)

type stubLoader struct {
	graph *pathgraph.DirectedGraph
	err   error
}

func (s *stubLoader) LoadGraph(context.Context) (*pathgraph.DirectedGraph, error) {
	return s.graph, s.err
}

func (s *stubLoader) Summary(context.Context) (domain.GraphSummary, error) {
	return domain.GraphSummary{}, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bypassGraph() *pathgraph.DirectedGraph {
	g := pathgraph.NewDirectedGraph()
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")
	g.AddEdge("B", "C")
	g.AddEdge("C", "D")
	g.AddEdge("A", "D")
	return g
}

func newTestService(g *pathgraph.DirectedGraph) *PathService {
	svc := NewPathService(&stubLoader{graph: g}, testLogger(), config.SamplingConfig{
		MaxLength:   10,
		MaxCount:    500,
		MaxAttempts: 100,
		Workers:     2,
	}, nil)
	svc.SetGraph(g)
	return svc
}

func TestSamplePaths(t *testing.T) {
	svc := newTestService(bypassGraph())

	result, err := svc.SamplePaths(context.Background(), domain.PathQuery{
		Source: "A", Target: "D", Length: 3, Count: 20,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Feasible {
		t.Fatal("expected feasible result")
	}
	if len(result.Paths) != 20 {
		t.Fatalf("expected 20 paths, got %d", len(result.Paths))
	}
	for _, path := range result.Paths {
		if len(path) != 4 || path[0] != "A" || path[3] != "D" {
			t.Errorf("unexpected path %v", path)
		}
	}
	if result.RetainedNodes != 4 {
		t.Errorf("expected 4 retained layered nodes, got %d", result.RetainedNodes)
	}
	if result.Completions != 1 {
		t.Errorf("expected completion count 1, got %f", result.Completions)
	}
}

func TestSamplePathsInfeasible(t *testing.T) {
	g := pathgraph.NewDirectedGraph()
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")
	g.AddEdge("B", "D")
	g.AddEdge("A", "D")
	svc := newTestService(g)

	result, err := svc.SamplePaths(context.Background(), domain.PathQuery{
		Source: "A", Target: "D", Length: 3, Count: 5,
	})
	if err != nil {
		t.Fatalf("infeasible queries must not error, got %v", err)
	}
	if result.Feasible {
		t.Fatal("expected infeasible result")
	}
	if len(result.Paths) != 0 {
		t.Fatalf("expected no paths, got %d", len(result.Paths))
	}
}

func TestSamplePathsValidation(t *testing.T) {
	svc := newTestService(bypassGraph())
	ctx := context.Background()

	if _, err := svc.SamplePaths(ctx, domain.PathQuery{Source: "A", Target: "ZZ", Length: 3}); !errors.Is(err, pathgraph.ErrInvalidEndpoint) {
		t.Errorf("expected ErrInvalidEndpoint, got %v", err)
	}
	if _, err := svc.SamplePaths(ctx, domain.PathQuery{Source: "", Target: "D", Length: 3}); !errors.Is(err, pathgraph.ErrInvalidEndpoint) {
		t.Errorf("expected ErrInvalidEndpoint for blank source, got %v", err)
	}
	if _, err := svc.SamplePaths(ctx, domain.PathQuery{Source: "A", Target: "D", Length: -1}); !errors.Is(err, pathgraph.ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
	if _, err := svc.SamplePaths(ctx, domain.PathQuery{Source: "A", Target: "D", Length: 99}); !errors.Is(err, pathgraph.ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength beyond cap, got %v", err)
	}
	if _, err := svc.SamplePaths(ctx, domain.PathQuery{Source: "A", Target: "D", Length: 3, Weighting: "bogus"}); err == nil {
		t.Error("expected error for unknown weighting")
	}
}

func TestEnumeratePaths(t *testing.T) {
	svc := newTestService(bypassGraph())

	result, err := svc.EnumeratePaths(context.Background(), domain.PathQuery{
		Source: "A", Target: "D", Length: 3,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("expected exactly one simple path, got %d", len(result.Paths))
	}
	want := []string{"A", "B", "C", "D"}
	for i, node := range want {
		if result.Paths[0][i] != node {
			t.Fatalf("expected path %v, got %v", want, result.Paths[0])
		}
	}
}

func TestRefresh(t *testing.T) {
	loader := &stubLoader{graph: bypassGraph()}
	svc := NewPathService(loader, testLogger(), config.SamplingConfig{}, nil)

	if _, err := svc.SamplePaths(context.Background(), domain.PathQuery{Source: "A", Target: "D", Length: 3}); err == nil {
		t.Fatal("expected error before first refresh")
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := svc.SamplePaths(context.Background(), domain.PathQuery{Source: "A", Target: "D", Length: 3}); err != nil {
		t.Fatalf("expected query to succeed after refresh, got %v", err)
	}

	loader.err = errors.New("store down")
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to propagate loader error")
	}
}

type recordingWriter struct {
	mu       sync.Mutex
	accounts []string
	edges    []domain.Edge
	failOn   string
}

func (w *recordingWriter) UpsertAccount(_ context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id == w.failOn {
		return errors.New("write refused")
	}
	w.accounts = append(w.accounts, id)
	return nil
}

func (w *recordingWriter) UpsertEdge(_ context.Context, edge domain.Edge) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if edge.From == w.failOn {
		return errors.New("write refused")
	}
	w.edges = append(w.edges, edge)
	return nil
}

func TestBulkIngestor(t *testing.T) {
	writer := &recordingWriter{}
	ingestor := NewBulkIngestor(writer, 3)

	edges := []domain.Edge{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "A"},
	}
	if err := ingestor.IngestEdges(context.Background(), edges); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(writer.edges) != 3 {
		t.Fatalf("expected 3 edges written, got %d", len(writer.edges))
	}

	if err := ingestor.IngestAccounts(context.Background(), []string{"A", "B"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(writer.accounts) != 2 {
		t.Fatalf("expected 2 accounts written, got %d", len(writer.accounts))
	}
}

func TestBulkIngestorAggregatesErrors(t *testing.T) {
	writer := &recordingWriter{failOn: "B"}
	ingestor := NewBulkIngestor(writer, 2)

	err := ingestor.IngestEdges(context.Background(), []domain.Edge{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
	})
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError, got %T", err)
	}
	if len(taskErr.Errors) != 1 {
		t.Fatalf("expected 1 underlying error, got %d", len(taskErr.Errors))
	}
}
