package ledger

import (
	"context"

	"github.com/joseph-ayodele/remitmatch/internal/common"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// Availability distinguishes "searched and found nothing" from "could not
// search at all". The matcher treats Unavailable as zero evidence from that
// key, never as a hard failure.
type Availability int

const (
	StatusOK Availability = iota
	StatusEmpty
	StatusUnavailable
)

// SearchResult carries candidates plus the availability of the backing store.
// Err is populated only for StatusUnavailable and is diagnostic — callers
// branch on Status, not Err.
type SearchResult struct {
	Candidates []entity.InvoiceCandidate
	Status     Availability
	Err        error
}

func ok(candidates []entity.InvoiceCandidate) SearchResult {
	if len(candidates) == 0 {
		return SearchResult{Status: StatusEmpty}
	}
	return SearchResult{Candidates: candidates, Status: StatusOK}
}

func unavailable(err error) SearchResult {
	if err == nil {
		err = common.ErrUnavailable
	}
	return SearchResult{Status: StatusUnavailable, Err: common.WrapError(err, "ledger search")}
}

// Searcher is the uniform search capability the matching core depends on.
// Implementations never treat "not found" as an error.
type Searcher interface {
	// SearchByNumber honors exact match, normalized-prefix match, substring
	// containment in either direction, and numeric equality when both sides
	// are purely numeric after normalization.
	SearchByNumber(ctx context.Context, query string, limit int) SearchResult

	// SearchByCustomer honors exact match after name normalization,
	// substring containment, and a similarity-ratio fallback with a minimum
	// threshold. Results are ordered best match first.
	SearchByCustomer(ctx context.Context, name string, limit int) SearchResult

	// SearchByAmount returns candidates whose open amount lies within
	// tolerance of amount.
	SearchByAmount(ctx context.Context, amount, tolerance float64, limit int) SearchResult
}
