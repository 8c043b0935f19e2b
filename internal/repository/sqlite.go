package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Aybis/maya-family/internal/model"
)

// Row types are the explicit serialization boundary between in-memory state
// and disk. They carry only durable fields; mapping functions below convert
// to and from the model types.

type transactionRow struct {
	ID            string `gorm:"primaryKey"`
	Position      int    `gorm:"index"`
	Type          string
	Amount        float64
	Category      string
	Description   string
	PaymentMethod string
	Date          string
	CreatedAt     string
	UpdatedAt     string
}

func (transactionRow) TableName() string { return "transaction_snapshots" }

type warehouseRow struct {
	ID           string `gorm:"primaryKey"`
	Position     int    `gorm:"index"`
	Name         string
	CurrentStock float64
	MinStock     float64
	Unit         string
	Category     string
	LastUpdated  string
}

func (warehouseRow) TableName() string { return "warehouse_snapshots" }

type reportRow struct {
	ID                       int `gorm:"primaryKey"`
	Month                    string
	Year                     int
	TotalIncome              float64
	TotalExpenses            float64
	NetBalance               float64
	CategoryBreakdown        []model.CategoryBreakdown `gorm:"serializer:json"`
	TransactionCount         int
	SavingsRate              float64
	AverageTransactionAmount float64
	TopCategories            []string `gorm:"serializer:json"`
}

func (reportRow) TableName() string { return "report_snapshots" }

type aiRow struct {
	ID                  int `gorm:"primaryKey"`
	Provider            string
	AutoProcess         bool
	ConfidenceThreshold float64
	History             []model.AIProcessingResult `gorm:"serializer:json"`
}

func (aiRow) TableName() string { return "ai_snapshots" }

type partitionRow struct {
	Name        string `gorm:"primaryKey"`
	Initialized bool
}

func (partitionRow) TableName() string { return "partitions" }

// SQLiteSnapshots persists partitions in a local SQLite database.
type SQLiteSnapshots struct {
	db *gorm.DB
}

var _ Snapshots = (*SQLiteSnapshots)(nil)

// OpenSQLite opens (creating if needed) the snapshot database at path and
// migrates the partition tables.
func OpenSQLite(path string) (*SQLiteSnapshots, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	if err := db.AutoMigrate(&transactionRow{}, &warehouseRow{}, &reportRow{}, &aiRow{}, &partitionRow{}); err != nil {
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}
	return &SQLiteSnapshots{db: db}, nil
}

func (s *SQLiteSnapshots) LoadTransactions() ([]model.Transaction, bool, error) {
	var rows []transactionRow
	if err := s.db.Order("position").Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("load transactions: %w", err)
	}
	records := make([]model.Transaction, 0, len(rows))
	for _, r := range rows {
		records = append(records, fromTransactionRow(r))
	}
	initialized, err := s.initialized(PartitionTransactions)
	return records, initialized, err
}

func (s *SQLiteSnapshots) SaveTransactions(records []model.Transaction, initialized bool) error {
	rows := make([]transactionRow, 0, len(records))
	for i, t := range records {
		rows = append(rows, toTransactionRow(t, i))
	}
	return s.replacePartition(PartitionTransactions, &transactionRow{}, rows, initialized)
}

func (s *SQLiteSnapshots) LoadItems() ([]model.WarehouseItem, bool, error) {
	var rows []warehouseRow
	if err := s.db.Order("position").Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("load items: %w", err)
	}
	records := make([]model.WarehouseItem, 0, len(rows))
	for _, r := range rows {
		records = append(records, fromWarehouseRow(r))
	}
	initialized, err := s.initialized(PartitionWarehouse)
	return records, initialized, err
}

func (s *SQLiteSnapshots) SaveItems(records []model.WarehouseItem, initialized bool) error {
	rows := make([]warehouseRow, 0, len(records))
	for i, it := range records {
		rows = append(rows, toWarehouseRow(it, i))
	}
	return s.replacePartition(PartitionWarehouse, &warehouseRow{}, rows, initialized)
}

func (s *SQLiteSnapshots) LoadReport() (*model.MonthlyReport, bool, error) {
	var rows []reportRow
	if err := s.db.Limit(1).Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("load report: %w", err)
	}
	initialized, err := s.initialized(PartitionReport)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, initialized, nil
	}
	report := fromReportRow(rows[0])
	return &report, initialized, nil
}

func (s *SQLiteSnapshots) SaveReport(report *model.MonthlyReport, initialized bool) error {
	var rows []reportRow
	if report != nil {
		rows = append(rows, toReportRow(*report))
	}
	return s.replacePartition(PartitionReport, &reportRow{}, rows, initialized)
}

func (s *SQLiteSnapshots) LoadAI() (*AISnapshot, error) {
	var rows []aiRow
	if err := s.db.Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load ai snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &AISnapshot{
		Provider:            r.Provider,
		AutoProcess:         r.AutoProcess,
		ConfidenceThreshold: r.ConfidenceThreshold,
		History:             r.History,
	}, nil
}

func (s *SQLiteSnapshots) SaveAI(snapshot AISnapshot) error {
	row := aiRow{
		ID:                  1,
		Provider:            snapshot.Provider,
		AutoProcess:         snapshot.AutoProcess,
		ConfidenceThreshold: snapshot.ConfidenceThreshold,
		History:             snapshot.History,
	}
	return s.replacePartition(PartitionAI, &aiRow{}, []aiRow{row}, true)
}

// replacePartition swaps a partition's rows wholesale inside one database
// transaction, write-through style.
func replaceRows[R any](tx *gorm.DB, emptyModel any, rows []R) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(emptyModel).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (s *SQLiteSnapshots) replacePartition(name string, emptyModel any, rows any, initialized bool) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		switch r := rows.(type) {
		case []transactionRow:
			err = replaceRows(tx, emptyModel, r)
		case []warehouseRow:
			err = replaceRows(tx, emptyModel, r)
		case []reportRow:
			err = replaceRows(tx, emptyModel, r)
		case []aiRow:
			err = replaceRows(tx, emptyModel, r)
		default:
			return fmt.Errorf("unsupported row type %T", rows)
		}
		if err != nil {
			return err
		}
		return tx.Save(&partitionRow{Name: name, Initialized: initialized}).Error
	})
	if err != nil {
		return fmt.Errorf("save %s partition: %w", name, err)
	}
	return nil
}

func (s *SQLiteSnapshots) initialized(name string) (bool, error) {
	var rows []partitionRow
	if err := s.db.Where("name = ?", name).Limit(1).Find(&rows).Error; err != nil {
		return false, fmt.Errorf("load %s partition flag: %w", name, err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	return rows[0].Initialized, nil
}

func toTransactionRow(t model.Transaction, pos int) transactionRow {
	return transactionRow{
		ID:            t.ID,
		Position:      pos,
		Type:          t.Type,
		Amount:        t.Amount,
		Category:      t.Category,
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
		Date:          t.Date,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func fromTransactionRow(r transactionRow) model.Transaction {
	return model.Transaction{
		ID:            r.ID,
		Type:          r.Type,
		Amount:        r.Amount,
		Category:      r.Category,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
		Date:          r.Date,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toWarehouseRow(i model.WarehouseItem, pos int) warehouseRow {
	return warehouseRow{
		ID:           i.ID,
		Position:     pos,
		Name:         i.Name,
		CurrentStock: i.CurrentStock,
		MinStock:     i.MinStock,
		Unit:         i.Unit,
		Category:     i.Category,
		LastUpdated:  i.LastUpdated,
	}
}

func fromWarehouseRow(r warehouseRow) model.WarehouseItem {
	return model.WarehouseItem{
		ID:           r.ID,
		Name:         r.Name,
		CurrentStock: r.CurrentStock,
		MinStock:     r.MinStock,
		Unit:         r.Unit,
		Category:     r.Category,
		LastUpdated:  r.LastUpdated,
	}
}

func toReportRow(r model.MonthlyReport) reportRow {
	return reportRow{
		ID:                       1,
		Month:                    r.Month,
		Year:                     r.Year,
		TotalIncome:              r.TotalIncome,
		TotalExpenses:            r.TotalExpenses,
		NetBalance:               r.NetBalance,
		CategoryBreakdown:        r.CategoryBreakdown,
		TransactionCount:         r.TransactionCount,
		SavingsRate:              r.SavingsRate,
		AverageTransactionAmount: r.AverageTransactionAmount,
		TopCategories:            r.TopCategories,
	}
}

func fromReportRow(r reportRow) model.MonthlyReport {
	return model.MonthlyReport{
		Month:                    r.Month,
		Year:                     r.Year,
		TotalIncome:              r.TotalIncome,
		TotalExpenses:            r.TotalExpenses,
		NetBalance:               r.NetBalance,
		CategoryBreakdown:        r.CategoryBreakdown,
		TransactionCount:         r.TransactionCount,
		SavingsRate:              r.SavingsRate,
		AverageTransactionAmount: r.AverageTransactionAmount,
		TopCategories:            r.TopCategories,
	}
}
