// Package domain holds the data structures shared between the repository,
// service, and transport layers.
package domain

import "time"

// Edge is a directed transfer between two accounts.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphSummary describes the graph snapshot currently loaded in memory.
type GraphSummary struct {
	Nodes    int       `json:"nodes"`
	Edges    int       `json:"edges"`
	LoadedAt time.Time `json:"loadedAt"`
}
