package model

import (
	"errors"
	"strings"
	"time"

	"github.com/Aybis/maya-family/internal/safe"
)

// AI provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// AIProcessingResult is the normalized outcome of a receipt scan. It is
// ephemeral: it becomes a transaction draft, never a store entity.
type AIProcessingResult struct {
	Amount      float64  `json:"amount"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Items       []string `json:"items"`
	Merchant    string   `json:"merchant,omitempty"`
	Date        string   `json:"date,omitempty"`
	Confidence  float64  `json:"confidence"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

// AISettings configures the receipt-processing adapter. The API key is
// credential material and is never persisted.
type AISettings struct {
	Provider            string  `json:"provider"`
	APIKey              string  `json:"apiKey"`
	AutoProcess         bool    `json:"autoProcess"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
}

// DefaultAISettings returns the out-of-the-box adapter configuration.
func DefaultAISettings() AISettings {
	return AISettings{
		Provider:            ProviderMock,
		APIKey:              "",
		AutoProcess:         true,
		ConfidenceThreshold: 0.7,
	}
}

// Validate checks the settings and returns a user-facing error string.
func (s AISettings) Validate() error {
	switch s.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderMock:
	default:
		return errors.New("Invalid AI provider selected")
	}
	if s.Provider != ProviderMock && strings.TrimSpace(s.APIKey) == "" {
		return errors.New("API key is required for selected provider")
	}
	if s.ConfidenceThreshold < 0 || s.ConfidenceThreshold > 1 {
		return errors.New("Confidence threshold must be between 0 and 1")
	}
	return nil
}

// IsConfigured reports whether the adapter can attempt a real scan.
func (s AISettings) IsConfigured() bool {
	return s.Provider == ProviderMock || strings.TrimSpace(s.APIKey) != ""
}

// NormalizeAIResult coerces whatever JSON-shaped result came back from a
// provider into the fixed suggestion shape: category forced into the closed
// set, date validated as a real calendar date or replaced with today,
// confidence clamped to [0,1], items filtered to string entries.
func NormalizeAIResult(payload map[string]any, now time.Time) AIProcessingResult {
	amount := safe.Number(safe.Get(payload, "amount", nil), 0)
	if amount < 0 {
		amount = 0
	}

	category := safe.String(safe.Get(payload, "category", nil), "")
	if !IsKnownCategory(category) {
		category = "Others"
	}

	items := []string{}
	if raw, ok := safe.Get(payload, "items", nil).([]any); ok {
		for _, e := range raw {
			if s, ok := e.(string); ok {
				items = append(items, s)
			}
		}
	}

	date := safe.String(safe.Get(payload, "date", nil), "")
	if _, err := time.Parse(DateLayout, date); err != nil {
		date = now.Format(DateLayout)
	}

	confidence := safe.Number(safe.Get(payload, "confidence", nil), 0.5)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	description := safe.String(safe.Get(payload, "description", nil), "")
	if description == "" {
		description = "Transaction"
	}

	return AIProcessingResult{
		Amount:      amount,
		Description: description,
		Category:    category,
		Items:       items,
		Merchant:    safe.String(safe.Get(payload, "merchant", nil), ""),
		Date:        date,
		Confidence:  confidence,
	}
}

// Draft converts the scan result into a transaction draft dated by the
// scan, paid by an unknown method the user is expected to correct.
func (r AIProcessingResult) Draft() TransactionDraft {
	return TransactionDraft{
		Type:          TypeExpense,
		Amount:        r.Amount,
		Category:      r.Category,
		Description:   r.Description,
		PaymentMethod: "Cash",
		Date:          r.Date,
	}
}
