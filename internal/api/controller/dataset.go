package controller

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/safe"
)

// AllUsers is the wildcard user id on the demo endpoints.
const AllUsers = "all"

// Dataset is the dev backend's in-memory state, partitioned per user.
// It is seeded with demo data on startup and lost on shutdown.
type Dataset struct {
	mu           sync.RWMutex
	transactions map[string][]model.Transaction
	items        map[string][]model.WarehouseItem

	now   func() time.Time
	newID func() string
}

// NewDataset seeds two demo households.
func NewDataset() *Dataset {
	d := &Dataset{
		transactions: make(map[string][]model.Transaction),
		items:        make(map[string][]model.WarehouseItem),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	d.transactions["user1"] = model.DefaultTransactions()
	d.items["user1"] = model.DefaultWarehouseItems()
	d.transactions["user2"] = seedSecondHousehold()
	d.items["user2"] = seedSecondPantry()
	return d
}

func seedSecondHousehold() []model.Transaction {
	return []model.Transaction{
		{
			ID: "201", Type: model.TypeIncome, Amount: 7500000,
			Category: "Salary", Description: "Monthly salary",
			PaymentMethod: "Bank Transfer", Date: "2024-01-25",
			CreatedAt: "2024-01-25T09:00:00Z", UpdatedAt: "2024-01-25T09:00:00Z",
		},
		{
			ID: "202", Type: model.TypeExpense, Amount: 320000,
			Category: "Shopping", Description: "School supplies",
			PaymentMethod: "Debit Card", Date: "2024-01-20",
			CreatedAt: "2024-01-20T14:30:00Z", UpdatedAt: "2024-01-20T14:30:00Z",
		},
		{
			ID: "203", Type: model.TypeExpense, Amount: 185000,
			Category: "Entertainment", Description: "Cinema tickets",
			PaymentMethod: "QRIS", Date: "2024-01-18",
			CreatedAt: "2024-01-18T19:45:00Z", UpdatedAt: "2024-01-18T19:45:00Z",
		},
	}
}

func seedSecondPantry() []model.WarehouseItem {
	return []model.WarehouseItem{
		{ID: "211", Name: "Sugar", CurrentStock: 3, MinStock: 2, Unit: "kg", Category: "Groceries", LastUpdated: "2024-01-19"},
		{ID: "212", Name: "Coffee", CurrentStock: 1, MinStock: 2, Unit: "packs", Category: "Groceries", LastUpdated: "2024-01-21"},
	}
}

// TransactionsFor returns the user's records; AllUsers merges every
// partition in stable user order.
func (d *Dataset) TransactionsFor(userID string) []model.Transaction {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if userID != AllUsers {
		return append([]model.Transaction{}, d.transactions[userID]...)
	}
	out := []model.Transaction{}
	for _, user := range d.userIDs() {
		out = append(out, d.transactions[user]...)
	}
	return out
}

// AddTransaction assigns server identity and stamps, then prepends.
func (d *Dataset) AddTransaction(userID string, draft model.TransactionDraft) model.Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	date := draft.Date
	if date == "" {
		date = now.Format(model.DateLayout)
	}
	stamp := now.Format(time.RFC3339)
	record := model.Transaction{
		ID:            d.newID(),
		Type:          draft.Type,
		Amount:        draft.Amount,
		Category:      draft.Category,
		Description:   draft.Description,
		PaymentMethod: draft.PaymentMethod,
		Date:          date,
		CreatedAt:     stamp,
		UpdatedAt:     stamp,
	}
	d.transactions[userID] = append([]model.Transaction{record}, d.transactions[userID]...)
	return record
}

// ItemsFor mirrors TransactionsFor for the inventory partition.
func (d *Dataset) ItemsFor(userID string) []model.WarehouseItem {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if userID != AllUsers {
		return append([]model.WarehouseItem{}, d.items[userID]...)
	}
	out := []model.WarehouseItem{}
	for _, user := range d.userIDs() {
		out = append(out, d.items[user]...)
	}
	return out
}

// AddItem assigns server identity and stamps, then appends.
func (d *Dataset) AddItem(userID string, draft model.ItemDraft) model.WarehouseItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	item := model.WarehouseItem{
		ID:           d.newID(),
		Name:         draft.Name,
		CurrentStock: draft.CurrentStock,
		MinStock:     draft.MinStock,
		Unit:         draft.Unit,
		Category:     draft.Category,
		LastUpdated:  d.now().Format(model.DateLayout),
	}
	d.items[userID] = append(d.items[userID], item)
	return item
}

// UpdateItem merge-patches the user's item. Returns false when the id is
// unknown.
func (d *Dataset) UpdateItem(userID, id string, patch model.ItemPatch) (model.WarehouseItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	items := d.items[userID]
	for i, item := range items {
		if item.ID != id {
			continue
		}
		updated := patch.Apply(item)
		updated.LastUpdated = d.now().Format(model.DateLayout)
		items[i] = updated
		return updated, true
	}
	return model.WarehouseItem{}, false
}

// ReportFor computes the monthly report from the user's transactions dated
// inside the month key.
func (d *Dataset) ReportFor(userID, month string) model.MonthlyReport {
	at, err := time.Parse(model.MonthLayout, month)
	if err != nil {
		at = d.now()
		month = model.MonthKey(at)
	}

	inMonth := safe.Filter(d.TransactionsFor(userID), func(tx model.Transaction) bool {
		return strings.HasPrefix(tx.Date, month)
	})

	report := model.MonthlyReport{
		Month:             month,
		Year:              at.Year(),
		TransactionCount:  len(inMonth),
		CategoryBreakdown: []model.CategoryBreakdown{},
		TopCategories:     []string{},
	}

	byCategory := make(map[string]*model.CategoryBreakdown)
	order := []string{}
	total := 0.0
	for _, tx := range inMonth {
		total += tx.Amount
		row, ok := byCategory[tx.Category]
		if !ok {
			row = &model.CategoryBreakdown{Category: tx.Category}
			byCategory[tx.Category] = row
			order = append(order, tx.Category)
		}
		if tx.Type == model.TypeIncome {
			report.TotalIncome += tx.Amount
			row.Income += tx.Amount
		} else {
			report.TotalExpenses += tx.Amount
			row.Expense += tx.Amount
		}
		row.Net = row.Income - row.Expense
	}

	report.NetBalance = report.TotalIncome - report.TotalExpenses
	if report.TotalIncome > 0 {
		rate := report.NetBalance / report.TotalIncome * 100
		if rate < 0 {
			rate = 0
		}
		report.SavingsRate = rate
	}
	if len(inMonth) > 0 {
		report.AverageTransactionAmount = total / float64(len(inMonth))
	}

	for _, category := range order {
		row := *byCategory[category]
		if report.TotalExpenses > 0 {
			row.Percentage = row.Expense / report.TotalExpenses * 100
		}
		report.CategoryBreakdown = append(report.CategoryBreakdown, row)
	}

	spending := safe.Filter(report.CategoryBreakdown, func(row model.CategoryBreakdown) bool {
		return row.Expense > 0
	})
	sorted := safe.Sort(spending, func(a, b model.CategoryBreakdown) bool {
		return a.Expense > b.Expense
	})
	for _, row := range safe.Slice(sorted, 0, 3) {
		report.TopCategories = append(report.TopCategories, row.Category)
	}
	return report
}

// userIDs returns the partition keys sorted, so AllUsers merges are stable.
// Callers hold at least the read lock.
func (d *Dataset) userIDs() []string {
	ids := make([]string, 0, len(d.transactions))
	for id := range d.transactions {
		ids = append(ids, id)
	}
	for id := range d.items {
		if _, ok := d.transactions[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
