// Command ingest loads a generated dataset into the Neo4j graph store using
// a concurrent bulk writer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/anvitha/pathtrace/internal/config"
	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/graph"
	"github.com/anvitha/pathtrace/internal/logging"
	"github.com/anvitha/pathtrace/internal/repository"
	"github.com/anvitha/pathtrace/internal/service"
)

func main() {
	dataDir := flag.String("data", "testdata/generated", "directory holding accounts.json and edges.json")
	workers := flag.Int("workers", 4, "concurrent upsert workers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accounts, edges, err := readDataset(*dataDir)
	if err != nil {
		logger.Error("failed to read dataset", "error", err)
		os.Exit(1)
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to connect to graph store", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	repo := repository.New(client)
	ingestor := service.NewBulkIngestor(repo, *workers)

	start := time.Now()
	if err := ingestor.IngestAccounts(ctx, accounts); err != nil {
		logger.Error("account ingestion failed", "error", err)
		os.Exit(1)
	}
	if err := ingestor.IngestEdges(ctx, edges); err != nil {
		logger.Error("edge ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete",
		"accounts", len(accounts),
		"edges", len(edges),
		"duration", time.Since(start).String(),
	)
}

func readDataset(dir string) ([]string, []domain.Edge, error) {
	var accounts []string
	if err := readJSON(filepath.Join(dir, "accounts.json"), &accounts); err != nil {
		return nil, nil, err
	}
	var edges []domain.Edge
	if err := readJSON(filepath.Join(dir, "edges.json"), &edges); err != nil {
		return nil, nil, err
	}
	return accounts, edges, nil
}

func readJSON(path string, dest any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	if err := json.NewDecoder(file).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
