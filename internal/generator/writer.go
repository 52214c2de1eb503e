package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDataset persists a generated dataset under dir as JSON files.
// It writes accounts.json, edges.json, and manifest.json.
func WriteDataset(dir string, dataset Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "accounts.json"), dataset.Accounts); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "edges.json"), dataset.Edges); err != nil {
		return err
	}
	manifest := map[string]any{
		"source":         dataset.Source,
		"target":         dataset.Target,
		"planted_length": dataset.PlantedLength,
		"accounts":       len(dataset.Accounts),
		"edges":          len(dataset.Edges),
	}
	return writeJSON(filepath.Join(dir, "manifest.json"), manifest)
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
