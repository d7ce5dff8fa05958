package recon

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/remitmatch/constants"
	"github.com/joseph-ayodele/remitmatch/internal/common"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/group"
	"github.com/joseph-ayodele/remitmatch/internal/ledger"
	"github.com/joseph-ayodele/remitmatch/internal/match"
	"github.com/joseph-ayodele/remitmatch/internal/parse"
)

// Result is the outcome of reconciling one payment document.
type Result struct {
	Record  entity.ExtractedRecord
	Matches []entity.InvoiceMatch
	Status  constants.MatchStatus
	Elapsed time.Duration
}

// GroupResult is the outcome for one check group within a lockbox batch.
type GroupResult struct {
	CheckNumber *string
	Pages       []int
	Record      entity.ExtractedRecord
	Matches     []entity.InvoiceMatch
	Status      constants.MatchStatus
}

// Processor wires the parse, group, and match stages into the document-level
// reconciliation operations.
type Processor struct {
	parser  *parse.Parser
	grouper *group.Grouper
	scorer  *match.Scorer
	combos  *match.ComboMatcher
	cfg     common.MatchConfig
	logger  *slog.Logger
}

func NewProcessor(searcher ledger.Searcher, cfg common.MatchConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	scoreCfg := match.ScoreConfig{AmountTolerance: cfg.AmountTolerance}
	comboCfg := match.ComboConfig{AmountTolerance: cfg.AmountTolerance}
	return &Processor{
		parser:  parse.NewParser(logger),
		grouper: group.NewGrouper(group.Config{}, logger),
		scorer:  match.NewScorer(searcher, scoreCfg, logger),
		combos:  match.NewComboMatcher(comboCfg, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

// ProcessDocument reconciles a single transcribed check or remittance page.
func (p *Processor) ProcessDocument(ctx context.Context, rawText string, kind constants.DocumentKind) Result {
	start := time.Now()
	rec := p.parser.Parse(rawText, kind)
	matches := p.matchRecord(ctx, rec)

	res := Result{
		Record:  rec,
		Matches: matches,
		Status:  statusFor(rec, matches),
		Elapsed: time.Since(start),
	}
	p.logger.Info("recon.document.done",
		"kind", string(kind),
		"status", string(res.Status),
		"matches", len(matches),
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}

// ProcessRecord reconciles an already-extracted record, as produced by
// structured vision extraction. No parsing happens; the record is matched
// as given.
func (p *Processor) ProcessRecord(ctx context.Context, rec entity.ExtractedRecord) Result {
	start := time.Now()
	matches := p.matchRecord(ctx, rec)

	res := Result{
		Record:  rec,
		Matches: matches,
		Status:  statusFor(rec, matches),
		Elapsed: time.Since(start),
	}
	p.logger.Info("recon.record.done",
		"status", string(res.Status),
		"matches", len(matches),
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}

// ProcessCombined reconciles a check page and its accompanying remittance
// page as one payment: both are parsed, then merged with check fields taking
// precedence, and the merged record is matched once.
func (p *Processor) ProcessCombined(ctx context.Context, checkText, remittanceText string) Result {
	start := time.Now()
	checkRec := p.parser.Parse(checkText, constants.KindCheck)
	remitRec := p.parser.Parse(remittanceText, constants.KindRemittance)
	rec := checkRec.Merged(remitRec)
	matches := p.matchRecord(ctx, rec)

	res := Result{
		Record:  rec,
		Matches: matches,
		Status:  statusFor(rec, matches),
		Elapsed: time.Since(start),
	}
	p.logger.Info("recon.combined.done",
		"status", string(res.Status),
		"matches", len(matches),
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}

// ProcessLockbox reconciles a multi-page lockbox scan: every page is parsed,
// the pages are segmented into check groups, and each group is matched
// independently. Group order follows page order.
func (p *Processor) ProcessLockbox(ctx context.Context, pageTexts []string) []GroupResult {
	start := time.Now()
	records := make([]entity.ExtractedRecord, len(pageTexts))
	for i, text := range pageTexts {
		records[i] = p.parser.Parse(text, constants.KindLockboxPage)
	}
	groups := p.grouper.Group(records)

	results := make([]GroupResult, len(groups))
	for i, grp := range groups {
		matches := p.matchRecord(ctx, grp.Record)
		results[i] = GroupResult{
			CheckNumber: grp.CheckNumber,
			Pages:       grp.Pages,
			Record:      grp.Record,
			Matches:     matches,
			Status:      statusFor(grp.Record, matches),
		}
	}

	p.logger.Info("recon.lockbox.done",
		"pages", len(pageTexts),
		"groups", len(groups),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results
}

// matchRecord runs the single-invoice passes and the combination search for
// one record and ranks the merged results.
func (p *Processor) matchRecord(ctx context.Context, rec entity.ExtractedRecord) []entity.InvoiceMatch {
	if !rec.HasUsefulData() {
		return nil
	}
	acc, pool := p.scorer.Score(ctx, rec)
	singles := p.scorer.Matches(acc)
	combos := p.combos.Find(rec, pool)
	return match.Rank(singles, combos, p.cfg.MaxResults)
}

func statusFor(rec entity.ExtractedRecord, matches []entity.InvoiceMatch) constants.MatchStatus {
	switch {
	case !rec.HasUsefulData():
		return constants.StatusFailed
	case len(matches) == 0:
		return constants.StatusNoMatch
	default:
		return constants.StatusMatched
	}
}
