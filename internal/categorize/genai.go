package categorize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// GeminiClassifier asks Gemini to place a transaction in the taxonomy.
// Each call is bounded by a per-request timeout.
type GeminiClassifier struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClassifier{client: client, model: model, timeout: timeout}, nil
}

const systemPrompt = `You classify personal finance transactions into a fixed taxonomy.
Prefer deterministic mapping from known vendors/MCCs; otherwise infer sensibly.
Return strict JSON with: category, subcategory, confidence (0-1), vendor.
Only return valid JSON, no additional text or formatting.`

func buildPrompt(input Input) string {
	taxonomyJSON, _ := json.Marshal(Taxonomy)

	var b strings.Builder
	fmt.Fprintf(&b, "Taxonomy = %s\n\n", taxonomyJSON)
	fmt.Fprintf(&b, "Transaction:\n")
	fmt.Fprintf(&b, "date=%s\n", input.Date.Format(time.DateOnly))
	fmt.Fprintf(&b, "amount=%.2f %s (%s)\n", float64(input.AmountCents)/100, input.Currency, input.Direction)
	fmt.Fprintf(&b, "descriptor=%q\n", input.Descriptor)
	fmt.Fprintf(&b, "memo=%q\n", input.Memo)
	fmt.Fprintf(&b, "mcc=%q\n\n", input.MCC)
	b.WriteString(`Examples:
- "NETFLIX.COM" -> {"category":"Subscriptions","subcategory":"Streaming","confidence":0.97,"vendor":"Netflix"}
- "CASEY'S STORE 1234" -> {"category":"Fuel","subcategory":"Gas Station","confidence":0.92,"vendor":"Casey's"}
- "HY-VEE 1234" -> {"category":"Groceries","subcategory":"Supermarket","confidence":0.95,"vendor":"Hy-Vee"}
- "STARBUCKS 5678" -> {"category":"Dining","subcategory":"Coffee","confidence":0.93,"vendor":"Starbucks"}

Now classify this transaction. Return only valid JSON.`)

	return b.String()
}

func (c *GeminiClassifier) Classify(ctx context.Context, input Input) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(input)}},
		},
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       genai.Ptr[float32](0.1),
		MaxOutputTokens:   150,
		ResponseMIMEType:  "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, classifyAPIError(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	result, err := parseReply(text)
	if err != nil {
		slog.Error("undecodable classifier reply", "reply", text, "error", err)
		return nil, err
	}

	return result, nil
}

// classifyAPIError folds transport failures into the retryable error
// classes the caller distinguishes on.
func classifyAPIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	return fmt.Errorf("generating categorization: %w", err)
}

type replyPayload struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Confidence  *float64 `json:"confidence"`
	Vendor      string   `json:"vendor"`
}

// parseReply decodes the model reply, tolerating markdown fences and
// stray text around the JSON object.
func parseReply(text string) (*Result, error) {
	cleaned := stripFences(text)

	var payload replyPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if payload.Category == "" {
		return nil, fmt.Errorf("%w: missing category", ErrMalformedResponse)
	}

	confidence := 0.5
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}

	return &Result{
		Category:    payload.Category,
		Subcategory: payload.Subcategory,
		Confidence:  clampConfidence(confidence),
		Vendor:      payload.Vendor,
	}, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Keep only the outermost object if the model added prose anyway.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}

func clampConfidence(confidence float64) decimal.Decimal {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return decimal.NewFromFloat(confidence).Round(2)
}
