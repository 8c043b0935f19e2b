// Package ai turns captured receipt images into transaction suggestions.
// Providers return whatever JSON-shaped payload the backing model produced;
// normalization into the fixed suggestion shape happens in the scanner.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Aybis/maya-family/internal/model"
)

// Provider is one receipt-recognition backend.
type Provider interface {
	// ProcessReceipt analyzes a base64 data-URL image and returns the raw
	// result payload.
	ProcessReceipt(ctx context.Context, imageData string) (map[string]any, error)
}

// ScanGateway is the slice of the remote gateway the adapter needs.
type ScanGateway interface {
	ScanInvoice(ctx context.Context, imageData string) (map[string]any, error)
	DummyInvoiceScan(ctx context.Context) (map[string]any, error)
}

// ProviderFor picks the tier-1 provider for the given settings: a direct
// model provider when configured, the backend scan endpoint otherwise, and
// the local mock when explicitly selected.
func ProviderFor(settings model.AISettings, baseURL, modelName string, gw ScanGateway) Provider {
	switch {
	case settings.Provider == model.ProviderOpenAI && settings.APIKey != "":
		return NewOpenAIProvider(settings.APIKey, baseURL, modelName)
	case settings.Provider == model.ProviderGemini && settings.APIKey != "":
		return NewGeminiProvider(settings.APIKey, modelName)
	case settings.Provider == model.ProviderMock:
		return NewMockProvider()
	default:
		return &RemoteProvider{gw: gw}
	}
}

// RemoteProvider delegates recognition to the backend scan endpoint.
type RemoteProvider struct {
	gw ScanGateway
}

func (p *RemoteProvider) ProcessReceipt(ctx context.Context, imageData string) (map[string]any, error) {
	return p.gw.ScanInvoice(ctx, imageData)
}

// receiptPrompt instructs a vision model to emit the suggestion shape.
func receiptPrompt() string {
	return "Analyze this receipt image and extract the following information as strict JSON:\n" +
		"{\n" +
		"  \"amount\": number (total amount),\n" +
		"  \"description\": string (brief description of purchase),\n" +
		"  \"category\": string (one of: " + model.CategoryPrompt() + "),\n" +
		"  \"items\": array of strings (list of purchased items),\n" +
		"  \"merchant\": string (store/merchant name),\n" +
		"  \"date\": string (date in YYYY-MM-DD format),\n" +
		"  \"confidence\": number (confidence score between 0-1)\n" +
		"}\n" +
		"Be accurate with numbers and categorization. If information is unclear, use reasonable defaults.\n" +
		"Return ONLY valid raw JSON with no Markdown fences."
}

// decodePayload parses a model response into a JSON object, tolerating
// Markdown fences and surrounding prose.
func decodePayload(raw string) (map[string]any, error) {
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

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return nil, errors.New("no JSON object in model response")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// imageBytes splits a base64 data URL into its MIME type and decoded bytes.
func imageBytes(imageData string) (string, []byte, error) {
	mimeType := "image/jpeg"
	encoded := imageData
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return "", nil, errors.New("malformed data URL")
		}
		header := strings.TrimPrefix(parts[0], "data:")
		if idx := strings.Index(header, ";"); idx != -1 {
			header = header[:idx]
		}
		if header != "" {
			mimeType = header
		}
		encoded = parts[1]
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, err
	}
	return mimeType, decoded, nil
}
