package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// LoaderFunc fetches the full open-invoice pool from a backing store.
type LoaderFunc func(ctx context.Context) ([]entity.InvoiceCandidate, error)

// EnrichFunc fills in detail fields (open amount, customer name) for one
// candidate. Enrichment failures are logged and skipped, never fatal.
type EnrichFunc func(ctx context.Context, inv *entity.InvoiceCandidate) error

// Snapshot caches a full ledger load with a TTL. On expiry the next search
// triggers a refresh; when a refresh fails but an earlier snapshot exists,
// the stale snapshot keeps serving (minutes-scale staleness is acceptable).
type Snapshot struct {
	loader  LoaderFunc
	enrich  EnrichFunc
	workers int
	ttl     time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	index    *Index
	loadedAt time.Time
}

func NewSnapshot(loader LoaderFunc, ttl time.Duration, logger *slog.Logger) *Snapshot {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapshot{loader: loader, ttl: ttl, workers: 20, logger: logger}
}

// WithEnrichment adds a per-candidate detail fetch, fanned out over a bounded
// worker pool after each full load.
func (s *Snapshot) WithEnrichment(enrich EnrichFunc, workers int) *Snapshot {
	s.enrich = enrich
	if workers > 0 {
		s.workers = workers
	}
	return s
}

// Get returns the current index, refreshing first if the snapshot is stale.
// When refresh fails the previous index (possibly nil) is returned alongside
// the error; callers decide whether stale data is acceptable.
func (s *Snapshot) Get(ctx context.Context) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil && time.Since(s.loadedAt) < s.ttl {
		return s.index, nil
	}

	start := time.Now()
	invoices, err := s.loader(ctx)
	if err != nil {
		s.logger.Warn("ledger.snapshot.refresh_failed", "error", err, "have_stale", s.index != nil)
		return s.index, err
	}
	if s.enrich != nil {
		s.enrichAll(ctx, invoices)
	}
	s.index = NewIndex(invoices)
	s.loadedAt = time.Now()
	s.logger.Info("ledger.snapshot.refreshed",
		"invoices", len(invoices),
		"ttl", s.ttl.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return s.index, nil
}

// enrichAll fans the detail fetch out over a bounded worker pool. Each
// worker owns distinct slice elements, so no locking is needed.
func (s *Snapshot) enrichAll(ctx context.Context, invoices []entity.InvoiceCandidate) {
	workers := s.workers
	if workers > len(invoices) {
		workers = len(invoices)
	}
	if workers == 0 {
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := s.enrich(ctx, &invoices[i]); err != nil {
					s.logger.Debug("ledger.snapshot.enrich_failed",
						"invoice_id", invoices[i].InvoiceID, "error", err)
				}
			}
		}()
	}
	for i := range invoices {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

// snapshotSearcher adapts a Snapshot to the Searcher contract. A failed
// refresh with no prior snapshot surfaces as StatusUnavailable; a failed
// refresh with stale data keeps serving the stale index.
type snapshotSearcher struct {
	snap *Snapshot
}

func (s snapshotSearcher) SearchByNumber(ctx context.Context, query string, limit int) SearchResult {
	ix, err := s.snap.Get(ctx)
	if ix == nil {
		return unavailable(err)
	}
	return ok(ix.ByNumber(query, limit))
}

func (s snapshotSearcher) SearchByCustomer(ctx context.Context, name string, limit int) SearchResult {
	ix, err := s.snap.Get(ctx)
	if ix == nil {
		return unavailable(err)
	}
	return ok(ix.ByCustomer(name, limit))
}

func (s snapshotSearcher) SearchByAmount(ctx context.Context, amount, tolerance float64, limit int) SearchResult {
	ix, err := s.snap.Get(ctx)
	if ix == nil {
		return unavailable(err)
	}
	return ok(ix.ByAmount(amount, tolerance, limit))
}
