package pathgraph

import (
	"errors"
	"fmt"
)

// ErrInvalidEndpoint indicates the source or target node is absent from the
// supplied graph. No partial result is produced.
var ErrInvalidEndpoint = errors.New("source or target not present in graph")

// ErrInvalidLength indicates a negative path length or depth was requested.
var ErrInvalidLength = errors.New("path length must be non-negative")

// ErrSamplingExhausted indicates the sampler hit its retry ceiling before
// producing the requested number of paths, or was invoked on an infeasible
// pruned graph.
var ErrSamplingExhausted = errors.New("path sampling exhausted")

// ExhaustedError carries the diagnostic context for a sampling failure: the
// last layered node at which a walk dead-ended and the attempts spent.
type ExhaustedError struct {
	DeadEnd  LayeredNode
	Attempts int
}

func (e *ExhaustedError) Error() string {
	if e.DeadEnd.Name == "" {
		return fmt.Sprintf("path sampling exhausted after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("path sampling exhausted after %d attempts, last dead end at depth %d node %q",
		e.Attempts, e.DeadEnd.Depth, e.DeadEnd.Name)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrSamplingExhausted
}
