package ai

import (
	"context"
	"math/rand"
	"time"

	"github.com/Aybis/maya-family/internal/model"
)

// MockProvider returns canned receipt results after a simulated processing
// delay. It is the guaranteed last tier of the scan chain and never fails
// unless the context is cancelled.
type MockProvider struct {
	// Latency simulates model processing time. Tests set it to zero.
	Latency time.Duration
	pick    func(n int) int
	now     func() time.Time
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Latency: 2 * time.Second,
		pick:    rand.Intn,
		now:     time.Now,
	}
}

func (p *MockProvider) ProcessReceipt(ctx context.Context, _ string) (map[string]any, error) {
	if p.Latency > 0 {
		timer := time.NewTimer(p.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	receipts := mockReceipts(p.now().Format(model.DateLayout))
	return receipts[p.pick(len(receipts))], nil
}

func mockReceipts(date string) []map[string]any {
	return []map[string]any{
		{
			"amount":      float64(125000),
			"description": "Grocery shopping",
			"category":    "Food",
			"items":       []any{"Rice 5kg", "Cooking Oil", "Vegetables", "Chicken"},
			"merchant":    "Superindo",
			"date":        date,
			"confidence":  0.85,
		},
		{
			"amount":      float64(75000),
			"description": "Fuel purchase",
			"category":    "Transportation",
			"items":       []any{"Pertalite"},
			"merchant":    "Pertamina",
			"date":        date,
			"confidence":  0.92,
		},
		{
			"amount":      float64(250000),
			"description": "Pharmacy purchase",
			"category":    "Healthcare",
			"items":       []any{"Vitamins", "Paracetamol", "Face Masks"},
			"merchant":    "Guardian",
			"date":        date,
			"confidence":  0.78,
		},
	}
}
