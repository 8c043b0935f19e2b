package model

import (
	"errors"
	"strings"
	"time"
)

// StockStatus classifies an item's stock level.
type StockStatus string

const (
	StockEmpty StockStatus = "empty"
	StockLow   StockStatus = "low"
	StockGood  StockStatus = "good"
)

// WarehouseItem is one tracked household inventory item.
type WarehouseItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CurrentStock float64 `json:"currentStock"`
	MinStock     float64 `json:"minStock"`
	Unit         string  `json:"unit"`
	Category     string  `json:"category"`
	LastUpdated  string  `json:"lastUpdated"`
}

// ItemDraft is the caller-supplied input for a new warehouse item.
type ItemDraft struct {
	Name         string  `json:"name"`
	CurrentStock float64 `json:"currentStock"`
	MinStock     float64 `json:"minStock"`
	Unit         string  `json:"unit"`
	Category     string  `json:"category"`
}

// ItemPatch is an id-keyed partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name         *string  `json:"name,omitempty"`
	CurrentStock *float64 `json:"currentStock,omitempty"`
	MinStock     *float64 `json:"minStock,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Category     *string  `json:"category,omitempty"`
}

// Validate checks the invariants an item must satisfy to be stored.
func (i WarehouseItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("missing id")
	}
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("missing name")
	}
	if i.CurrentStock < 0 {
		return errors.New("current stock cannot be negative")
	}
	if i.MinStock < 0 {
		return errors.New("minimum stock cannot be negative")
	}
	if strings.TrimSpace(i.Unit) == "" {
		return errors.New("missing unit")
	}
	if strings.TrimSpace(i.Category) == "" {
		return errors.New("missing category")
	}
	if _, err := time.Parse(DateLayout, i.LastUpdated); err != nil {
		return errors.New("lastUpdated must be YYYY-MM-DD")
	}
	return nil
}

// Validate checks a draft before any network call is attempted.
func (d ItemDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("Name is required")
	}
	if strings.TrimSpace(d.Unit) == "" {
		return errors.New("Unit is required")
	}
	if strings.TrimSpace(d.Category) == "" {
		return errors.New("Category is required")
	}
	if d.CurrentStock < 0 {
		return errors.New("Stock cannot be negative")
	}
	if d.MinStock < 0 {
		return errors.New("Minimum stock cannot be negative")
	}
	return nil
}

// Apply merges the patch into i. The caller re-stamps LastUpdated.
func (p ItemPatch) Apply(i WarehouseItem) WarehouseItem {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.CurrentStock != nil {
		i.CurrentStock = *p.CurrentStock
	}
	if p.MinStock != nil {
		i.MinStock = *p.MinStock
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	return i
}

// StockStatus classifies the item. Out of stock is a stricter subset of low
// stock and is checked first.
func (i WarehouseItem) StockStatus() StockStatus {
	if i.CurrentStock == 0 {
		return StockEmpty
	}
	if i.CurrentStock <= i.MinStock {
		return StockLow
	}
	return StockGood
}

// IsLowStock reports whether the item is at or below its minimum threshold.
func (i WarehouseItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinStock
}

// DefaultWarehouseItems is the tier-3 fallback dataset.
func DefaultWarehouseItems() []WarehouseItem {
	return []WarehouseItem{
		{ID: "1", Name: "Rice", CurrentStock: 5, MinStock: 10, Unit: "kg", Category: "Food", LastUpdated: "2024-01-14"},
		{ID: "2", Name: "Cooking Oil", CurrentStock: 2, MinStock: 3, Unit: "bottles", Category: "Food", LastUpdated: "2024-01-13"},
		{ID: "3", Name: "Tissue Paper", CurrentStock: 15, MinStock: 5, Unit: "packs", Category: "Household", LastUpdated: "2024-01-12"},
		{ID: "4", Name: "Shampoo", CurrentStock: 1, MinStock: 2, Unit: "bottles", Category: "Personal Care", LastUpdated: "2024-01-11"},
		{ID: "5", Name: "Detergent", CurrentStock: 8, MinStock: 3, Unit: "packs", Category: "Household", LastUpdated: "2024-01-10"},
	}
}
