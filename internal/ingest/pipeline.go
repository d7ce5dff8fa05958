package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/remitmatch/constants"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
	"github.com/joseph-ayodele/remitmatch/internal/recon"
	"github.com/joseph-ayodele/remitmatch/internal/vision"
)

// Pipeline reconciles one inbox file end to end: extract the image's
// contents, match them, and write a JSON result sidecar next to the scan.
// With structured enabled (and an extractor that supports it) the model
// returns validated fields directly; otherwise the raw transcription goes
// through the parser.
type Pipeline struct {
	extractor  vision.TextExtractor
	proc       *recon.Processor
	structured bool
	logger     *slog.Logger
}

func NewPipeline(extractor vision.TextExtractor, proc *recon.Processor, structured bool, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{extractor: extractor, proc: proc, structured: structured, logger: logger}
}

// fileResult is the sidecar shape written next to each processed scan.
type fileResult struct {
	Path      string                 `json:"path"`
	Kind      string                 `json:"kind"`
	Status    string                 `json:"status"`
	ElapsedMS int64                  `json:"elapsed_ms"`
	Record    entity.ExtractedRecord `json:"record"`
	Matches   []entity.InvoiceMatch  `json:"matches"`
}

func (p *Pipeline) ProcessFile(ctx context.Context, path string, kind constants.DocumentKind) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scan: %w", err)
	}

	var res recon.Result
	var model string
	if re, ok := p.extractor.(vision.RecordExtractor); ok && p.structured {
		rec, ext, err := re.ExtractRecord(ctx, image, kind)
		if err != nil {
			return fmt.Errorf("extract fields: %w", err)
		}
		model = ext.Model
		res = p.proc.ProcessRecord(ctx, rec)
	} else {
		ext, err := p.extractor.ExtractText(ctx, image, kind)
		if err != nil {
			return fmt.Errorf("transcribe scan: %w", err)
		}
		model = ext.Model
		res = p.proc.ProcessDocument(ctx, ext.Text, kind)
	}

	out := fileResult{
		Path:      path,
		Kind:      string(kind),
		Status:    string(res.Status),
		ElapsedMS: res.Elapsed.Milliseconds(),
		Record:    res.Record,
		Matches:   res.Matches,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + ".result.json"
	if err := os.WriteFile(sidecar, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	p.logger.Info("ingest.file.done",
		"path", path,
		"status", out.Status,
		"matches", len(res.Matches),
		"model", model,
	)
	return nil
}

// KindFromPath infers the document kind from the inbox layout: scans dropped
// under a "remittances" folder are remittance advices, under "lockbox" are
// lockbox pages, anything else defaults to a check.
func KindFromPath(path string) constants.DocumentKind {
	lower := strings.ToLower(filepath.ToSlash(path))
	switch {
	case strings.Contains(lower, "/remittance"):
		return constants.KindRemittance
	case strings.Contains(lower, "/lockbox"):
		return constants.KindLockboxPage
	default:
		return constants.KindCheck
	}
}
