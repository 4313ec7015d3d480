package scanner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mmynk/receiptsplit/internal/models"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You are an expert bill/receipt OCR system. Analyze the provided bill/receipt and extract the following information in JSON format:

{
  "merchant_name": "string - name of the store/restaurant",
  "currency": "string - 3 letter currency code (e.g., USD, EUR, GBP)",
  "items": [
    {
      "name": "string - item name/description",
      "price": number - item price as a decimal
    }
  ],
  "subtotal": number - subtotal before tax (if visible, otherwise null),
  "tax": number - tax amount (if visible, otherwise null),
  "total": number - total amount
}

Important rules:
1. Extract ALL line items from the bill
2. Prices should be numbers, not strings (e.g., 12.99 not "12.99")
3. If currency symbol is $, assume USD unless otherwise specified
4. If tax is not visible or cannot be determined, set it to null
5. If subtotal is not visible, set it to null
6. Be precise with item names and prices
7. Return ONLY valid JSON, no markdown or explanations`

const userPrompt = "Please analyze this bill/receipt and extract all the information."

// AnthropicConfig configures AnthropicScanner.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration

	// BaseURL and MaxRetries are overridden in tests.
	BaseURL    string
	MaxRetries *int
}

// AnthropicScanner reads receipts with a Claude vision model.
type AnthropicScanner struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

var _ Scanner = (*AnthropicScanner)(nil)

// NewAnthropic builds a scanner from cfg.
func NewAnthropic(cfg AnthropicConfig) *AnthropicScanner {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries != nil {
		opts = append(opts, option.WithMaxRetries(*cfg.MaxRetries))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicScanner{
		client:  anthropic.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
	}
}

// Scan sends the image to the model and parses its JSON reply.
func (s *AnthropicScanner) Scan(ctx context.Context, img Image) (*models.ScannedBill, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	encoded := base64.StdEncoding.EncodeToString(img.Data)
	var block anthropic.ContentBlockParamUnion
	if img.IsPDF() {
		block = anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: encoded})
	} else {
		block = anthropic.NewImageBlockBase64(img.ContentType, encoded)
	}

	start := time.Now()
	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt), block),
		},
	})
	if err != nil {
		return nil, mapProviderError(err)
	}

	for _, content := range message.Content {
		if content.Type != "text" {
			continue
		}
		slog.Debug("Receipt scanned",
			"model", s.model,
			"bytes", len(img.Data),
			"tokens_in", message.Usage.InputTokens,
			"tokens_out", message.Usage.OutputTokens,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		bill, err := ParseReceipt(content.Text)
		if err != nil {
			slog.Warn("Unreadable scan response", "model", s.model, "response", content.Text, "error", err)
			return nil, err
		}
		return bill, nil
	}
	return nil, fmt.Errorf("%w: no text content in response", ErrUnreadable)
}

func mapProviderError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return ErrRateLimited
		case http.StatusPaymentRequired:
			return ErrQuotaExceeded
		}
		return fmt.Errorf("anthropic API error: status %d: %w", apiErr.StatusCode, err)
	}
	return fmt.Errorf("anthropic API error: %w", err)
}
