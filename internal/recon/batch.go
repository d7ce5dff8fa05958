package recon

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/remitmatch/constants"
)

// DefaultBatchWorkers bounds concurrent document reconciliation within one
// batch. Matching is snapshot-backed, so parallelism costs little.
const DefaultBatchWorkers = 8

// BatchItem is one document submitted for batch reconciliation.
type BatchItem struct {
	Name    string
	RawText string
	Kind    constants.DocumentKind
}

// BatchResult pairs a batch item with its reconciliation outcome. ID is
// assigned at submission so callers can correlate logs with results.
type BatchResult struct {
	ID     uuid.UUID
	Name   string
	Result Result
}

// ProcessBatch reconciles every item with a bounded worker pool. Results come
// back in input order, and one item's failure never blocks the rest — a
// document that yields nothing simply reports StatusFailed in its slot.
func (p *Processor) ProcessBatch(ctx context.Context, items []BatchItem, workers int) []BatchResult {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}
	start := time.Now()

	results := make([]BatchResult, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				item := items[idx]
				id := uuid.New()
				logger := p.logger.With("job_id", id.String(), "name", item.Name)
				logger.Debug("recon.batch.item.start")
				results[idx] = BatchResult{
					ID:     id,
					Name:   item.Name,
					Result: p.ProcessDocument(ctx, item.RawText, item.Kind),
				}
			}
		}()
	}

	for idx := range items {
		if ctx.Err() != nil {
			// Canceled mid-batch: unsubmitted slots report failed.
			results[idx] = BatchResult{ID: uuid.New(), Name: items[idx].Name,
				Result: Result{Status: constants.StatusFailed}}
			continue
		}
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	p.logger.Info("recon.batch.done",
		"items", len(items),
		"workers", workers,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results
}
