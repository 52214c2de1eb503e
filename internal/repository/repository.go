// Package repository persists the account transfer graph in the graph
// database and materializes it into the in-memory representation consumed by
// the path extraction engine.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/graph"
	"github.com/anvitha/pathtrace/internal/pathgraph"
)

const upsertAccountCypher = `MERGE (a:Account {id: $accountId})
ON CREATE SET a.createdAt = timestamp()
SET a.updatedAt = timestamp()`

const upsertTransferCypher = `MERGE (from:Account {id: $fromId})
MERGE (to:Account {id: $toId})
MERGE (from)-[r:TRANSFERS_TO]->(to)
ON CREATE SET r.createdAt = timestamp()
SET r.updatedAt = timestamp()`

const loadEdgesCypher = `MATCH (from:Account)-[:TRANSFERS_TO]->(to:Account)
RETURN from.id AS fromId, to.id AS toId`

const loadNodesCypher = `MATCH (a:Account)
RETURN a.id AS accountId`

const countGraphCypher = `MATCH (a:Account)
OPTIONAL MATCH (a)-[r:TRANSFERS_TO]->()
RETURN count(DISTINCT a) AS nodes, count(r) AS edges`

// Repository wraps a graph.Client with the statements pathtrace needs.
type Repository struct {
	client graph.Client
	nowFn  func() time.Time
}

// New constructs a Repository backed by the provided client.
func New(client graph.Client) *Repository {
	return &Repository{client: client, nowFn: time.Now}
}

// UpsertAccount creates the account node if it does not exist.
func (r *Repository) UpsertAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("account ID is required")
	}
	_, err := r.client.ExecuteWrite(ctx, upsertAccountCypher, map[string]any{
		"accountId": accountID,
	})
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", accountID, err)
	}
	return nil
}

// UpsertEdge records a directed transfer relationship between two accounts,
// creating missing endpoints on the fly.
func (r *Repository) UpsertEdge(ctx context.Context, edge domain.Edge) error {
	if edge.From == "" || edge.To == "" {
		return fmt.Errorf("edge endpoints are required")
	}
	_, err := r.client.ExecuteWrite(ctx, upsertTransferCypher, map[string]any{
		"fromId": edge.From,
		"toId":   edge.To,
	})
	if err != nil {
		return fmt.Errorf("upsert edge %s -> %s: %w", edge.From, edge.To, err)
	}
	return nil
}

// LoadGraph reads the full adjacency out of the store and builds the
// directed graph the engine traverses. Isolated accounts are included so
// endpoint validation can tell "unknown account" apart from "no paths".
func (r *Repository) LoadGraph(ctx context.Context) (*pathgraph.DirectedGraph, error) {
	nodesRes, err := r.client.ExecuteRead(ctx, loadNodesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load account nodes: %w", err)
	}
	edgesRes, err := r.client.ExecuteRead(ctx, loadEdgesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load transfer edges: %w", err)
	}

	g := pathgraph.NewDirectedGraph()
	for _, rec := range nodesRes.Records {
		if id, ok := rec.StringValue("accountId"); ok && id != "" {
			g.AddNode(id)
		}
	}
	for _, rec := range edgesRes.Records {
		from, okFrom := rec.StringValue("fromId")
		to, okTo := rec.StringValue("toId")
		if !okFrom || !okTo || from == "" || to == "" {
			continue
		}
		g.AddEdge(from, to)
	}
	return g, nil
}

// Summary reports node and edge counts from the store.
func (r *Repository) Summary(ctx context.Context) (domain.GraphSummary, error) {
	res, err := r.client.ExecuteRead(ctx, countGraphCypher, nil)
	if err != nil {
		return domain.GraphSummary{}, fmt.Errorf("count graph: %w", err)
	}
	summary := domain.GraphSummary{LoadedAt: r.nowFn().UTC()}
	if len(res.Records) == 0 {
		return summary, nil
	}
	summary.Nodes = intValue(res.Records[0]["nodes"])
	summary.Edges = intValue(res.Records[0]["edges"])
	return summary, nil
}

// intValue coerces the numeric types the Bolt protocol may hand back.
func intValue(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
