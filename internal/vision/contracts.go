package vision

import (
	"context"
	"time"

	"github.com/joseph-ayodele/remitmatch/constants"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// Result is one page's transcription outcome.
type Result struct {
	Text     string
	Model    string
	Duration time.Duration
}

// TextExtractor transcribes a scanned payment-document image into raw text.
// Implementations must return the extraction-failure marker as the text (not
// an error) when the page is legible enough to process but yields nothing,
// so downstream parsing can treat it uniformly.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, kind constants.DocumentKind) (Result, error)
}

// RecordExtractor extracts structured payment fields directly, bypassing the
// transcribe-then-parse path. Implementations validate the model output
// against the record schema before returning it; an unreadable page yields a
// zero record (no useful data), not an error. Result.Text carries the raw
// JSON payload for the sidecar/debug trail.
type RecordExtractor interface {
	ExtractRecord(ctx context.Context, image []byte, kind constants.DocumentKind) (entity.ExtractedRecord, Result, error)
}
