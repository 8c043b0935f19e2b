package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider recognizes receipts through an OpenAI-compatible vision
// chat endpoint.
type OpenAIProvider struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIProvider builds a provider. baseURL overrides the upstream host
// for compatible gateways; empty modelName selects gpt-4o-mini.
func NewOpenAIProvider(apiKey, baseURL, modelName string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}
}

func (p *OpenAIProvider) ProcessReceipt(ctx context.Context, imageData string) (map[string]any, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.modelName,
		MaxTokens:   500,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: receiptPrompt(),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageData,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai receipt scan: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai receipt scan: empty response")
	}
	return decodePayload(resp.Choices[0].Message.Content)
}
