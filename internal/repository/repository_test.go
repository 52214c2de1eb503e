package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/graph"
)

func TestRepository_UpsertEdge(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	edge := domain.Edge{From: "ACC-000001", To: "ACC-000002"}
	if err := repo.UpsertEdge(context.Background(), edge); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	call := calls[0]
	if call.Query != upsertTransferCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", upsertTransferCypher, call.Query)
	}
	if call.Params["fromId"] != edge.From {
		t.Errorf("expected fromId %s, got %v", edge.From, call.Params["fromId"])
	}
	if call.Params["toId"] != edge.To {
		t.Errorf("expected toId %s, got %v", edge.To, call.Params["toId"])
	}
}

func TestRepository_UpsertEdgeValidation(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	if err := repo.UpsertEdge(context.Background(), domain.Edge{From: "", To: "B"}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestRepository_UpsertAccount(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	if err := repo.UpsertAccount(context.Background(), "ACC-000007"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	calls := mem.WriteCalls()
	if len(calls) != 1 || calls[0].Query != upsertAccountCypher {
		t.Fatalf("unexpected write calls: %+v", calls)
	}
}

func TestRepository_LoadGraph(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"accountId": "A"},
		{"accountId": "B"},
		{"accountId": "C"},
		{"accountId": "ISOLATED"},
	}})
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"fromId": "A", "toId": "B"},
		{"fromId": "B", "toId": "C"},
		{"fromId": "B", "toId": "A"},
	}})

	repo := New(mem)
	g, err := repo.LoadGraph(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if g.NodeCount() != 4 {
		t.Errorf("expected 4 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("expected 3 edges, got %d", g.EdgeCount())
	}
	if !g.HasEdge("A", "B") || !g.HasEdge("B", "A") {
		t.Error("expected both directions of the A/B cycle")
	}
	if !g.HasNode("ISOLATED") {
		t.Error("expected isolated account to be registered")
	}

	reads := mem.ReadCalls()
	if len(reads) != 2 {
		t.Fatalf("expected 2 read queries, got %d", len(reads))
	}
	if reads[0].Query != loadNodesCypher || reads[1].Query != loadEdgesCypher {
		t.Errorf("unexpected read queries: %+v", reads)
	}
}

func TestRepository_LoadGraphError(t *testing.T) {
	mem := graph.NewMemoryClient().WithError(errors.New("boom"))
	repo := New(mem)
	if _, err := repo.LoadGraph(context.Background()); err == nil {
		t.Fatal("expected error from failing client")
	}
}

func TestRepository_Summary(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"nodes": int64(120), "edges": int64(450)},
	}})

	repo := New(mem)
	summary, err := repo.Summary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Nodes != 120 || summary.Edges != 450 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.LoadedAt.IsZero() {
		t.Error("expected LoadedAt to be set")
	}
}
