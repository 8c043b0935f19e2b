package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/Aybis/maya-family/internal/model"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    float64
	}{
		{"plain json", `{"amount": 125000}`, false, 125000},
		{"fenced json", "```json\n{\"amount\": 125000}\n```", false, 125000},
		{"fenced without language", "```\n{\"amount\": 5}\n```", false, 5},
		{"surrounding prose", "Here you go: {\"amount\": 7} hope that helps", false, 7},
		{"no object", "I could not read the receipt", true, 0},
		{"broken json", `{"amount": }`, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePayload(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got["amount"] != tt.want {
				t.Errorf("amount = %v, want %v", got["amount"], tt.want)
			}
		})
	}
}

func TestImageBytes(t *testing.T) {
	// "hi" base64-encoded.
	mime, data, err := imageBytes("data:image/png;base64,aGk=")
	if err != nil {
		t.Fatalf("imageBytes: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q", mime)
	}
	if string(data) != "hi" {
		t.Errorf("data = %q", data)
	}

	mime, _, err = imageBytes("aGk=")
	if err != nil {
		t.Fatalf("bare base64: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("bare base64 should default to jpeg, got %q", mime)
	}

	if _, _, err := imageBytes("data:image/png;base64"); err == nil {
		t.Error("malformed data URL should fail")
	}
	if _, _, err := imageBytes("data:image/png;base64,!!!"); err == nil {
		t.Error("invalid base64 should fail")
	}
}

func TestProviderFor(t *testing.T) {
	gw := &fakeScanGateway{}
	tests := []struct {
		name     string
		settings model.AISettings
		want     string
	}{
		{"openai with key", model.AISettings{Provider: model.ProviderOpenAI, APIKey: "sk"}, "*ai.OpenAIProvider"},
		{"gemini with key", model.AISettings{Provider: model.ProviderGemini, APIKey: "g"}, "*ai.GeminiProvider"},
		{"mock", model.AISettings{Provider: model.ProviderMock}, "*ai.MockProvider"},
		{"openai without key", model.AISettings{Provider: model.ProviderOpenAI}, "*ai.RemoteProvider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProviderFor(tt.settings, "", "", gw)
			if name := fmt.Sprintf("%T", got); name != tt.want {
				t.Errorf("provider = %s, want %s", name, tt.want)
			}
		})
	}
}

func TestMockProviderPayloads(t *testing.T) {
	mock := NewMockProvider()
	mock.Latency = 0

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		idx := i
		mock.pick = func(int) int { return idx }
		payload, err := mock.ProcessReceipt(context.Background(), "")
		if err != nil {
			t.Fatalf("ProcessReceipt: %v", err)
		}
		result := model.NormalizeAIResult(payload, mock.now())
		if result.Amount <= 0 {
			t.Errorf("receipt %d amount = %v", i, result.Amount)
		}
		if !model.IsKnownCategory(result.Category) {
			t.Errorf("receipt %d category %q outside closed set", i, result.Category)
		}
		seen[result.Category] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct canned receipts, got %v", seen)
	}
}
