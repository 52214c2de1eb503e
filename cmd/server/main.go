// Command server runs the path tracing HTTP API backed by a Neo4j graph store.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anvitha/pathtrace/internal/config"
	"github.com/anvitha/pathtrace/internal/graph"
	"github.com/anvitha/pathtrace/internal/logging"
	"github.com/anvitha/pathtrace/internal/metrics"
	"github.com/anvitha/pathtrace/internal/repository"
	"github.com/anvitha/pathtrace/internal/server"
	"github.com/anvitha/pathtrace/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
		if err := client.Close(context.Background()); err != nil {
			logger.Error("failed to close graph client", "error", err)
		}
	}()

	repo := repository.New(client)

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.HTTP.MetricsEnabled {
		m = metrics.New()
		metricsHandler = m.Handler()
	}

	svc := service.NewPathService(repo, logger, cfg.Sampling, m)
	if err := svc.Refresh(ctx); err != nil {
		logger.Error("initial graph load failed", "error", err)
		os.Exit(1)
	}
	summary, err := svc.Summary(ctx)
	if err == nil {
		logger.Info("graph loaded", "nodes", summary.Nodes, "edges", summary.Edges)
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:         server.GraphHealthService{Client: client},
		API:            server.NewAPIHandlers(logger, svc),
		Metrics:        metricsHandler,
		AllowedOrigins: splitOrigins(cfg.HTTP.AllowedOriginsCSV),
	})
	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("server stopped")
}

func splitOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
