package group

import (
	"log/slog"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/parse"
)

// DefaultLookBack is how many pages past the last check-bearing page a
// numberless page may trail and still join the active group. Check stubs
// reliably precede or closely follow their remittance detail, so a small
// window is enough.
const DefaultLookBack = 2

// Config tunes the page grouper.
type Config struct {
	LookBack int
}

// Grouper segments an ordered sequence of per-page records into check groups.
// Greedy single pass, no backtracking: document order reflects physical page
// order.
type Grouper struct {
	cfg    Config
	logger *slog.Logger
}

func NewGrouper(cfg Config, logger *slog.Logger) *Grouper {
	if cfg.LookBack <= 0 {
		cfg.LookBack = DefaultLookBack
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Grouper{cfg: cfg, logger: logger}
}

// builder is the mutable in-progress group; finalized groups are immutable.
type builder struct {
	checkNumber *string
	pages       []int
	record      entity.ExtractedRecord
	// lastAnchor is the index of the most recent page that contributed a
	// check number; for numberless groups it tracks the last attached page.
	lastAnchor int
}

func (b *builder) finalize() entity.CheckGroup {
	return entity.CheckGroup{
		CheckNumber: b.checkNumber,
		Pages:       b.pages,
		Record:      b.record,
	}
}

// Group consumes per-page records (one per document page, in page order) and
// returns the finalized check groups in page order. Pages without useful data
// are dropped before grouping begins.
func (g *Grouper) Group(pages []entity.ExtractedRecord) []entity.CheckGroup {
	var groups []entity.CheckGroup
	var active *builder

	emit := func() {
		if active != nil {
			groups = append(groups, active.finalize())
			active = nil
		}
	}

	for idx, page := range pages {
		if !page.HasUsefulData() {
			continue
		}

		var pageNumber *string
		if page.CheckNumber != nil {
			if n := parse.NormalizeCheckNumber(*page.CheckNumber); n != "" {
				pageNumber = &n
			}
		}

		switch {
		case pageNumber != nil && active != nil && active.checkNumber != nil && *active.checkNumber == *pageNumber:
			// Same check continues; merge into the active group.
			active.pages = append(active.pages, idx)
			active.record = active.record.Merged(page)
			active.lastAnchor = idx

		case pageNumber != nil:
			// New check number starts a new group.
			emit()
			active = &builder{checkNumber: pageNumber, pages: []int{idx}, record: page, lastAnchor: idx}

		case active != nil && idx-active.lastAnchor <= g.cfg.LookBack:
			// Numberless page close enough to the active group's anchor.
			active.pages = append(active.pages, idx)
			active.record = active.record.Merged(page)
			if active.checkNumber == nil {
				// Holding bucket has no numbered anchor; trail from the
				// latest attached page instead.
				active.lastAnchor = idx
			}

		default:
			// Too far from any anchored page; open a check-number-less
			// holding group.
			emit()
			active = &builder{pages: []int{idx}, record: page, lastAnchor: idx}
		}
	}
	emit()

	g.logger.Debug("group.done", "pages_in", len(pages), "groups_out", len(groups))
	return groups
}
