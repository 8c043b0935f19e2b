// Package repository persists durable store snapshots. Each store owns one
// named partition holding only the fields meant to survive a restart:
// transient state (loading, error) and credential material never reach disk.
package repository

import "github.com/Aybis/maya-family/internal/model"

// Partition names.
const (
	PartitionTransactions = "transactions"
	PartitionWarehouse    = "warehouse"
	PartitionReport       = "report"
	PartitionAI           = "ai"
)

// AISnapshot is the durable subset of the AI store. The API key is
// deliberately absent from this type; it cannot be persisted by
// construction.
type AISnapshot struct {
	Provider            string
	AutoProcess         bool
	ConfidenceThreshold float64
	History             []model.AIProcessingResult
}

// Snapshots is the persistence boundary used by the stores. Load methods
// report the partition's initialized flag alongside its data; a partition
// that was never saved yields its zero value and false.
type Snapshots interface {
	LoadTransactions() ([]model.Transaction, bool, error)
	SaveTransactions(records []model.Transaction, initialized bool) error

	LoadItems() ([]model.WarehouseItem, bool, error)
	SaveItems(records []model.WarehouseItem, initialized bool) error

	LoadReport() (*model.MonthlyReport, bool, error)
	SaveReport(report *model.MonthlyReport, initialized bool) error

	LoadAI() (*AISnapshot, error)
	SaveAI(snapshot AISnapshot) error
}

// Nop is a Snapshots implementation that persists nothing. Used by tests
// and when storage is disabled in config.
type Nop struct{}

func (Nop) LoadTransactions() ([]model.Transaction, bool, error) { return nil, false, nil }

func (Nop) SaveTransactions([]model.Transaction, bool) error { return nil }

func (Nop) LoadItems() ([]model.WarehouseItem, bool, error) { return nil, false, nil }

func (Nop) SaveItems([]model.WarehouseItem, bool) error { return nil }

func (Nop) LoadReport() (*model.MonthlyReport, bool, error) { return nil, false, nil }

func (Nop) SaveReport(*model.MonthlyReport, bool) error { return nil }

func (Nop) LoadAI() (*AISnapshot, error) { return nil, nil }

func (Nop) SaveAI(AISnapshot) error { return nil }
