// Package service orchestrates the path extraction pipeline over the graph
// snapshot loaded from the repository.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/anvitha/pathtrace/internal/config"
	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/metrics"
	"github.com/anvitha/pathtrace/internal/pathgraph"
)

// GraphLoader is the storage contract required by the path service.
type GraphLoader interface {
	LoadGraph(ctx context.Context) (*pathgraph.DirectedGraph, error)
	Summary(ctx context.Context) (domain.GraphSummary, error)
}

// PathService runs cycle-free path queries against an in-memory snapshot of
// the account graph. The snapshot is swapped atomically by Refresh, so
// queries already in flight keep the graph they started with.
type PathService struct {
	loader  GraphLoader
	logger  *slog.Logger
	cfg     config.SamplingConfig
	metrics *metrics.Metrics

	mu       sync.RWMutex
	graph    *pathgraph.DirectedGraph
	loadedAt time.Time
}

// NewPathService constructs a PathService. metrics may be nil.
func NewPathService(loader GraphLoader, logger *slog.Logger, cfg config.SamplingConfig, m *metrics.Metrics) *PathService {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 12
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = 10000
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &PathService{
		loader:  loader,
		logger:  logger,
		cfg:     cfg,
		metrics: m,
	}
}

// Refresh reloads the graph snapshot from storage.
func (s *PathService) Refresh(ctx context.Context) error {
	g, err := s.loader.LoadGraph(ctx)
	if err != nil {
		return fmt.Errorf("refresh graph snapshot: %w", err)
	}
	s.mu.Lock()
	s.graph = g
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("graph snapshot refreshed", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// SetGraph installs a pre-built graph snapshot directly, bypassing storage.
func (s *PathService) SetGraph(g *pathgraph.DirectedGraph) {
	s.mu.Lock()
	s.graph = g
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()
}

func (s *PathService) snapshot() (*pathgraph.DirectedGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return nil, fmt.Errorf("no graph snapshot loaded")
	}
	return s.graph, nil
}

// Summary describes the loaded snapshot.
func (s *PathService) Summary(ctx context.Context) (domain.GraphSummary, error) {
	s.mu.RLock()
	g, loadedAt := s.graph, s.loadedAt
	s.mu.RUnlock()
	if g == nil {
		return s.loader.Summary(ctx)
	}
	return domain.GraphSummary{
		Nodes:    g.NodeCount(),
		Edges:    g.EdgeCount(),
		LoadedAt: loadedAt,
	}, nil
}

// SamplePaths draws query.Count cycle-free paths of exactly query.Length
// hops. An infeasible query returns an empty, Feasible=false result rather
// than an error.
func (s *PathService) SamplePaths(ctx context.Context, query domain.PathQuery) (domain.PathResult, error) {
	started := time.Now()
	result, err := s.samplePaths(ctx, query)
	s.observe("sample", started, result, err)
	return result, err
}

func (s *PathService) samplePaths(ctx context.Context, query domain.PathQuery) (domain.PathResult, error) {
	query, err := s.normalizeQuery(query)
	if err != nil {
		return domain.PathResult{}, err
	}
	g, err := s.snapshot()
	if err != nil {
		return domain.PathResult{}, err
	}

	final, passes, err := s.pruneFixpoint(ctx, g, query)
	if err != nil {
		return domain.PathResult{}, err
	}
	result := resultFromSnapshot(final, passes, query)
	if final.Infeasible() {
		if s.metrics != nil {
			s.metrics.InfeasibleTotal.Inc()
		}
		return result, nil
	}

	src := pathgraph.LayeredNode{Depth: 0, Name: query.Source}
	tgt := pathgraph.LayeredNode{Depth: query.Length, Name: query.Target}
	opts := pathgraph.SampleOptions{
		Weighting:   weightingFor(query.Weighting),
		MaxAttempts: s.cfg.MaxAttempts,
		Unique:      query.Unique,
	}

	paths, err := s.sampleParallel(ctx, src, tgt, final, opts, query.Count)
	if err != nil {
		return domain.PathResult{}, err
	}
	result.Paths = paths
	if s.metrics != nil {
		s.metrics.PathsSampled.Add(float64(len(paths)))
	}
	return result, nil
}

// sampleParallel shards the requested count across the worker pool. Each
// worker owns its randomness source; the pruned snapshot is shared read-only.
// Unique draws need a global dedup set, so they run on one worker.
func (s *PathService) sampleParallel(ctx context.Context, src, tgt pathgraph.LayeredNode, final pathgraph.Snapshot, opts pathgraph.SampleOptions, count int) ([][]string, error) {
	workers := s.cfg.Workers
	if opts.Unique || count < workers*2 {
		workers = 1
	}

	shards := shardCount(count, workers)
	results := make([][][]string, len(shards))
	errs := make([]error, len(shards))
	var wg sync.WaitGroup
	for i, shard := range shards {
		wg.Add(1)
		go func(i, shard int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			workerOpts := opts
			workerOpts.Rand = rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
			sampler := pathgraph.NewSampler(src, tgt, final, workerOpts)
			results[i], errs[i] = sampler.SamplePaths(shard)
		}(i, shard)
	}
	wg.Wait()

	var paths [][]string
	for i := range shards {
		if errs[i] != nil {
			return nil, errs[i]
		}
		paths = append(paths, results[i]...)
	}
	return paths, nil
}

// EnumeratePaths lists the surviving simple paths exhaustively, capped by
// query.Limit.
func (s *PathService) EnumeratePaths(ctx context.Context, query domain.PathQuery) (domain.PathResult, error) {
	started := time.Now()
	result, err := s.enumeratePaths(ctx, query)
	s.observe("enumerate", started, result, err)
	return result, err
}

func (s *PathService) enumeratePaths(ctx context.Context, query domain.PathQuery) (domain.PathResult, error) {
	query, err := s.normalizeQuery(query)
	if err != nil {
		return domain.PathResult{}, err
	}
	g, err := s.snapshot()
	if err != nil {
		return domain.PathResult{}, err
	}

	final, passes, err := s.pruneFixpoint(ctx, g, query)
	if err != nil {
		return domain.PathResult{}, err
	}
	result := resultFromSnapshot(final, passes, query)
	if final.Infeasible() {
		if s.metrics != nil {
			s.metrics.InfeasibleTotal.Inc()
		}
		return result, nil
	}

	src := pathgraph.LayeredNode{Depth: 0, Name: query.Source}
	tgt := pathgraph.LayeredNode{Depth: query.Length, Name: query.Target}
	sampler := pathgraph.NewSampler(src, tgt, final, pathgraph.SampleOptions{})
	result.Paths = sampler.EnumeratePaths(query.Limit)
	pathgraph.SortPaths(result.Paths)
	return result, nil
}

// pruneFixpoint runs reachability, layered construction, and pruning to the
// final snapshot.
func (s *PathService) pruneFixpoint(ctx context.Context, g *pathgraph.DirectedGraph, query domain.PathQuery) (pathgraph.Snapshot, int, error) {
	fwd, bwd, err := pathgraph.ReachableSets(g, query.Source, query.Target, query.Length)
	if err != nil {
		return pathgraph.Snapshot{}, 0, err
	}
	if err := ctx.Err(); err != nil {
		return pathgraph.Snapshot{}, 0, err
	}

	raw, err := pathgraph.BuildPathsGraph(g, query.Source, query.Target, query.Length, fwd, bwd)
	if err != nil {
		return pathgraph.Snapshot{}, 0, err
	}
	if err := ctx.Err(); err != nil {
		return pathgraph.Snapshot{}, 0, err
	}

	src := pathgraph.LayeredNode{Depth: 0, Name: query.Source}
	tgt := pathgraph.LayeredNode{Depth: query.Length, Name: query.Target}
	initial := pathgraph.PruneInitial(raw, src, tgt)
	snapshots := pathgraph.PruneToFixpoint(initial, src, tgt, query.Length)
	if s.metrics != nil {
		s.metrics.PrunePasses.Observe(float64(len(snapshots)))
	}
	return pathgraph.Final(snapshots), len(snapshots), nil
}

func resultFromSnapshot(final pathgraph.Snapshot, passes int, query domain.PathQuery) domain.PathResult {
	result := domain.PathResult{
		Paths:       [][]string{},
		Feasible:    !final.Infeasible(),
		PrunePasses: passes,
	}
	if final.Graph != nil {
		result.RetainedNodes = final.Graph.NodeCount()
		result.RetainedEdges = final.Graph.EdgeCount()
	}
	if result.Feasible {
		src := pathgraph.LayeredNode{Depth: 0, Name: query.Source}
		tgt := pathgraph.LayeredNode{Depth: query.Length, Name: query.Target}
		sampler := pathgraph.NewSampler(src, tgt, final, pathgraph.SampleOptions{})
		result.Completions = sampler.CountCompletions()
	}
	return result
}

func weightingFor(name string) pathgraph.Weighting {
	if name == domain.WeightingUniform {
		return pathgraph.WeightUniform
	}
	return pathgraph.WeightByCompletions
}

func shardCount(total, workers int) []int {
	if workers <= 1 {
		return []int{total}
	}
	shards := make([]int, workers)
	base := total / workers
	rest := total % workers
	for i := range shards {
		shards[i] = base
		if i < rest {
			shards[i]++
		}
	}
	return shards
}

func (s *PathService) observe(operation string, started time.Time, result domain.PathResult, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case !result.Feasible:
		outcome = "infeasible"
	}
	if s.metrics != nil {
		s.metrics.QueriesTotal.WithLabelValues(operation, outcome).Inc()
		s.metrics.QuerySeconds.Observe(time.Since(started).Seconds())
		if err == nil {
			s.metrics.RetainedNodesObs.Observe(float64(result.RetainedNodes))
		}
	}
	if err != nil {
		s.logger.Warn("path query failed", "operation", operation, "error", err)
		return
	}
	s.logger.Debug("path query completed",
		"operation", operation,
		"feasible", result.Feasible,
		"paths", len(result.Paths),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}
