// Command datagen writes a synthetic cyclic transfer graph to disk as JSON,
// ready for the ingest command.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/anvitha/pathtrace/internal/generator"
)

func main() {
	defaults := generator.DefaultConfig()

	outDir := flag.String("out", "testdata/generated", "output directory for the dataset files")
	numAccounts := flag.Int("accounts", defaults.NumAccounts, "number of account nodes")
	edgeFactor := flag.Float64("edge-factor", defaults.EdgeFactor, "average out-degree per account")
	plantedLength := flag.Int("planted-length", defaults.PlantedLength, "hop count of the guaranteed source-to-target path (0 disables)")
	cycleFraction := flag.Float64("cycle-fraction", defaults.CycleFraction, "probability of a back edge per account")
	seed := flag.Int64("seed", defaults.Seed, "random seed")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	gen := generator.New(generator.Config{
		NumAccounts:   *numAccounts,
		EdgeFactor:    *edgeFactor,
		PlantedLength: *plantedLength,
		CycleFraction: *cycleFraction,
		Seed:          *seed,
	})

	dataset, err := gen.Generate(context.Background())
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if err := generator.WriteDataset(*outDir, dataset); err != nil {
		logger.Error("failed to write dataset", "error", err)
		os.Exit(1)
	}

	logger.Info("dataset written",
		"dir", *outDir,
		"accounts", len(dataset.Accounts),
		"edges", len(dataset.Edges),
		"source", dataset.Source,
		"target", dataset.Target,
		"planted_length", dataset.PlantedLength,
	)
}
