package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/joseph-ayodele/remitmatch/constants"
	"github.com/joseph-ayodele/remitmatch/internal/common"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

const maxCompletionTokens = 2000

// OpenAIExtractor transcribes page images with an OpenAI vision model.
type OpenAIExtractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewOpenAIExtractor(cfg common.VisionConfig, logger *slog.Logger) *OpenAIExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIExtractor{
		client:  openai.NewClient(cfg.APIKey),
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// ExtractText sends the image as a base64 data URL and returns the model's
// transcription verbatim. A model refusal or empty choice set is an error;
// an explicit "nothing legible" transcription comes back as the failure
// marker in Result.Text.
func (e *OpenAIExtractor) ExtractText(ctx context.Context, image []byte, kind constants.DocumentKind) (Result, error) {
	start := time.Now()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	dataURL := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(image), encoded)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: maxCompletionTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: promptFor(kind),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("vision model returned no choices")
	}

	res := Result{
		Text:     resp.Choices[0].Message.Content,
		Model:    e.model,
		Duration: time.Since(start),
	}
	e.logger.Debug("vision.extract.ok",
		"kind", string(kind),
		"model", e.model,
		"chars", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// ExtractRecord asks the model for structured field extraction instead of a
// raw transcription, using JSON mode. The payload is validated against the
// record schema before it is trusted. An unreadable page comes back as an
// empty object, so the caller sees a zero record rather than an error.
func (e *OpenAIExtractor) ExtractRecord(ctx context.Context, image []byte, kind constants.DocumentKind) (entity.ExtractedRecord, Result, error) {
	start := time.Now()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	dataURL := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(image), encoded)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: maxCompletionTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: structuredPromptFor(kind),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return entity.ExtractedRecord{}, Result{}, fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return entity.ExtractedRecord{}, Result{}, fmt.Errorf("vision model returned no choices")
	}

	res := Result{
		Text:     resp.Choices[0].Message.Content,
		Model:    e.model,
		Duration: time.Since(start),
	}
	rec, err := DecodeRecordJSON([]byte(res.Text))
	if err != nil {
		return entity.ExtractedRecord{}, res, fmt.Errorf("structured extraction rejected: %w", err)
	}
	e.logger.Debug("vision.extract_record.ok",
		"kind", string(kind),
		"model", e.model,
		"has_data", rec.HasUsefulData(),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return rec, res, nil
}

func promptFor(kind constants.DocumentKind) string {
	switch kind {
	case constants.KindCheck:
		return checkPrompt
	case constants.KindRemittance:
		return remittancePrompt
	default:
		return lockboxPrompt
	}
}

func structuredPromptFor(kind constants.DocumentKind) string {
	var subject string
	switch kind {
	case constants.KindCheck:
		subject = "scanned paper check"
	case constants.KindRemittance:
		subject = "remittance advice"
	default:
		subject = "lockbox batch page"
	}
	return `Extract the payment fields from this ` + subject + ` as JSON.
Fields: check_number, amount (numeric dollars, no currency symbol), date,
payor_name, payee_name, customer_name, and invoice_numbers (every invoice
reference listed, exactly as printed). Omit any field you cannot read.
If the image is unreadable, return an empty JSON object.`
}

const checkPrompt = `Transcribe ALL text visible on this scanned paper check.
Include the payor name and address, the payee ("PAY TO THE ORDER OF") line,
the check number, the date, the numeric and written dollar amounts, the memo
line, and any bank routing text. Preserve the layout line by line.
If the image is unreadable, respond with exactly: ` + constants.ErrorMarker

const remittancePrompt = `Transcribe ALL text visible on this remittance advice.
Include the customer or company name, check or payment reference numbers, the
payment date, every invoice number listed, and every dollar amount with its
label. Preserve tables row by row, keeping columns separated by spaces.
If the image is unreadable, respond with exactly: ` + constants.ErrorMarker

const lockboxPrompt = `Transcribe ALL text visible on this lockbox batch page.
The page may be a check, a remittance stub, or a listing that covers several
payments. Capture every check number, invoice number, customer name, date,
and dollar amount exactly as printed, preserving the line structure.
If the image is unreadable, respond with exactly: ` + constants.ErrorMarker
