// Package graph abstracts the graph database the account network is stored
// in. The repository only depends on the Client contract, so the Bolt-backed
// implementation can be swapped for the in-memory double in tests.
package graph

import (
	"context"
	"errors"
)

// Client is the minimal contract the repository needs to talk to the
// underlying graph store.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified query response.
type Result struct {
	Records []Record
}

// Record is one row of key-value pairs returned by the graph engine.
type Record map[string]any

// StringValue extracts a string field from the record, tolerating absent or
// differently typed values.
func (r Record) StringValue(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
