// Package service coordinates the stores into higher-level household flows.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/infrastructure/ai"
	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/store"
)

// ConsumableKeywords maps words that commonly appear in purchase
// descriptions to the inventory item they deplete.
var ConsumableKeywords = map[string]string{
	"rice":      "Rice",
	"beras":     "Rice",
	"oil":       "Cooking Oil",
	"minyak":    "Cooking Oil",
	"tissue":    "Tissue Paper",
	"tisu":      "Tissue Paper",
	"shampoo":   "Shampoo",
	"detergent": "Detergent",
	"deterjen":  "Detergent",
}

// LedgerService ties the transaction ledger, the inventory and the receipt
// scanner together.
type LedgerService struct {
	transactions *store.TransactionStore
	warehouse    *store.WarehouseStore
	aiStore      *store.AIStore
	scanner      *ai.Scanner
	log          zerolog.Logger
}

func NewLedgerService(
	transactions *store.TransactionStore,
	warehouse *store.WarehouseStore,
	aiStore *store.AIStore,
	scanner *ai.Scanner,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		transactions: transactions,
		warehouse:    warehouse,
		aiStore:      aiStore,
		scanner:      scanner,
		log:          log,
	}
}

// RecordPurchase records the transaction and, for expenses whose description
// mentions a known consumable, decrements the matching inventory item by one
// unit. The inventory side is best effort and never blocks the ledger write.
func (s *LedgerService) RecordPurchase(ctx context.Context, draft model.TransactionDraft) *model.Transaction {
	record := s.transactions.AddTransaction(ctx, draft)
	if record == nil || record.Type != model.TypeExpense {
		return record
	}

	desc := strings.ToLower(record.Description)
	for keyword, itemName := range ConsumableKeywords {
		if strings.Contains(desc, keyword) {
			s.warehouse.ConsumeItem(itemName, 1)
		}
	}
	return record
}

// ScanReceipt runs the recognition chain on a captured image, records the
// outcome in the processing history, and auto-books a transaction when the
// adapter is set to auto-process and the confidence clears the threshold.
func (s *LedgerService) ScanReceipt(ctx context.Context, imageData string) (*model.AIProcessingResult, *model.Transaction) {
	s.aiStore.SetProcessing(true)
	defer s.aiStore.SetProcessing(false)

	result, err := s.scanner.Process(ctx, imageData)
	if err != nil {
		s.log.Warn().Err(err).Msg("receipt scan aborted")
		return nil, nil
	}
	s.aiStore.RecordResult(result)

	settings := s.aiStore.Settings()
	if !settings.AutoProcess || result.Confidence < settings.ConfidenceThreshold {
		return &result, nil
	}
	return &result, s.RecordPurchase(ctx, result.Draft())
}

// MonthSummary is a compact rollup of a month's ledger activity.
type MonthSummary struct {
	Month        string
	Income       float64
	Expenses     float64
	Net          float64
	LowStock     []model.WarehouseItem
	Transactions int
}

// Summarize rolls up the current ledger and inventory state for the month
// containing now.
func (s *LedgerService) Summarize(now time.Time) MonthSummary {
	return MonthSummary{
		Month:        model.MonthKey(now),
		Income:       s.transactions.TotalIncome(),
		Expenses:     s.transactions.TotalExpenses(),
		Net:          s.transactions.NetBalance(),
		LowStock:     s.warehouse.LowStockItems(),
		Transactions: len(s.transactions.Transactions()),
	}
}
