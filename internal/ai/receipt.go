// Package ai wraps the Gemini vision call that guesses transaction fields
// from a photographed receipt. Everything it returns is advisory: the user
// reviews and edits the fields before anything reaches the ledger.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

var (
	// ErrInvalidResponse means the model answered but the answer was not the
	// strict JSON we asked for.
	ErrInvalidResponse = errors.New("invalid response from vision model")

	// ErrUnavailable means the vision service could not be reached at all.
	ErrUnavailable = errors.New("vision service unavailable")
)

const receiptPrompt = `Analyze this receipt image and extract the following information in JSON format:
- "amount": total amount (just the number)
- "date": date in ISO format (YYYY-MM-DD)
- "description": brief summary of items purchased
- "merchantName": merchant or store name
- "category": one of (housing, transportation, groceries, utilities, entertainment, food, shopping, healthcare, education, personal, travel, insurance, gifts, bills, other-expense)

Respond with valid raw JSON only.
Do NOT wrap the response in code fences.
Do NOT use ` + "```json" + ` or any Markdown.`

// ReceiptData is the structured best-effort guess extracted from a receipt.
type ReceiptData struct {
	AmountCent   int64
	Date         time.Time
	Description  string
	Category     string
	MerchantName string
}

// Scanner calls Gemini with a fixed prompt. The API key comes from the
// environment (GEMINI_API_KEY), following the client's defaults.
type Scanner struct {
	client *genai.Client
	model  string
}

// NewScanner constructs the Gemini client for the given model name.
func NewScanner(ctx context.Context, model string) (*Scanner, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Scanner{client: client, model: model}, nil
}

// ScanReceipt sends the raw image to the model and parses its JSON answer.
func (s *Scanner) ScanReceipt(ctx context.Context, image []byte, mimeType string) (*ReceiptData, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", ErrUnavailable, err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	return parseReceiptJSON(raw)
}

type receiptJSON struct {
	Amount       json.Number `json:"amount"`
	Date         string      `json:"date"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	MerchantName string      `json:"merchantName"`
}

// parseReceiptJSON strips Markdown fences the model may have added despite
// instructions, then decodes the strict-JSON object.
func parseReceiptJSON(raw string) (*ReceiptData, error) {
	clean := cleanModelJSON(raw)

	var parsed receiptJSON
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	d, err := decimal.NewFromString(parsed.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("%w: bad amount %q", ErrInvalidResponse, parsed.Amount)
	}
	amountCent := d.Round(2).Shift(2).IntPart()

	data := &ReceiptData{
		AmountCent:   amountCent,
		Description:  parsed.Description,
		Category:     parsed.Category,
		MerchantName: parsed.MerchantName,
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, parsed.Date); err == nil {
			data.Date = t
			break
		}
	}

	return data, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// If there is still junk around the object, keep only the outermost braces.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
