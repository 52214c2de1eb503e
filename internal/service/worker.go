package service

import (
	"context"
	"sync"

	"github.com/anvitha/pathtrace/internal/domain"
)

// TaskError accumulates errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// EdgeWriter is the storage contract required by the bulk ingestor.
type EdgeWriter interface {
	UpsertAccount(ctx context.Context, accountID string) error
	UpsertEdge(ctx context.Context, edge domain.Edge) error
}

// BulkIngestor loads account and edge datasets using a worker pool.
type BulkIngestor struct {
	repo    EdgeWriter
	workers int
}

// NewBulkIngestor creates a BulkIngestor with the given concurrency.
func NewBulkIngestor(repo EdgeWriter, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{repo: repo, workers: workers}
}

// IngestAccounts upserts account nodes concurrently.
func (bi *BulkIngestor) IngestAccounts(ctx context.Context, accounts []string) error {
	return bi.run(ctx, len(accounts), func(idx int) error {
		return bi.repo.UpsertAccount(ctx, accounts[idx])
	})
}

// IngestEdges upserts transfer edges concurrently.
func (bi *BulkIngestor) IngestEdges(ctx context.Context, edges []domain.Edge) error {
	return bi.run(ctx, len(edges), func(idx int) error {
		return bi.repo.UpsertEdge(ctx, edges[idx])
	})
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}

	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	for w := 0; w < bi.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				if err := ctx.Err(); err != nil {
					errCh <- err
					return
				}
				errCh <- workerFn(idx)
			}
		}()
	}

	for idx := 0; idx < total; idx++ {
		select {
		case <-ctx.Done():
			close(indexCh)
			wg.Wait()
			return ctx.Err()
		case indexCh <- idx:
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	taskErr := &TaskError{}
	for err := range errCh {
		taskErr.append(err)
	}
	return taskErr.asError()
}
