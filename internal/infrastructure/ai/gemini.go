package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider recognizes receipts through the Gemini API.
type GeminiProvider struct {
	apiKey    string
	modelName string
}

// NewGeminiProvider builds a provider. Empty modelName selects
// gemini-2.0-flash.
func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiProvider{apiKey: apiKey, modelName: modelName}
}

func (p *GeminiProvider) ProcessReceipt(ctx context.Context, imageData string) (map[string]any, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	mimeType, raw, err := imageBytes(imageData)
	if err != nil {
		return nil, fmt.Errorf("gemini receipt scan: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: receiptPrompt()},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: raw}},
			},
		},
	}
	resp, err := client.Models.GenerateContent(ctx, p.modelName, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini receipt scan: %w", err)
	}
	return decodePayload(resp.Text())
}
