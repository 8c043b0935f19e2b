package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/repository"
)

var errDown = errors.New("connection refused")

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeGateway implements every store-facing gateway slice with overridable
// behavior. Unset endpoints fail, matching an unreachable backend.
type fakeGateway struct {
	listTx   func(ctx context.Context) ([]model.Transaction, error)
	createTx func(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error)
	dummyTx  func(ctx context.Context, userID string) ([]model.Transaction, error)

	listItems  func(ctx context.Context) ([]model.WarehouseItem, error)
	createItem func(ctx context.Context, draft model.ItemDraft) (model.WarehouseItem, error)
	updateItem func(ctx context.Context, id string, patch model.ItemPatch) (model.WarehouseItem, error)
	dummyItems func(ctx context.Context, userID string) ([]model.WarehouseItem, error)

	report      func(ctx context.Context, month string) (model.MonthlyReport, error)
	dummyReport func(ctx context.Context, userID, month string) (model.MonthlyReport, error)
}

func (g *fakeGateway) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if g.listTx == nil {
		return nil, errDown
	}
	return g.listTx(ctx)
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error) {
	if g.createTx == nil {
		return model.Transaction{}, errDown
	}
	return g.createTx(ctx, draft)
}

func (g *fakeGateway) DummyTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if g.dummyTx == nil {
		return nil, errDown
	}
	return g.dummyTx(ctx, userID)
}

func (g *fakeGateway) ListWarehouseItems(ctx context.Context) ([]model.WarehouseItem, error) {
	if g.listItems == nil {
		return nil, errDown
	}
	return g.listItems(ctx)
}

func (g *fakeGateway) CreateWarehouseItem(ctx context.Context, draft model.ItemDraft) (model.WarehouseItem, error) {
	if g.createItem == nil {
		return model.WarehouseItem{}, errDown
	}
	return g.createItem(ctx, draft)
}

func (g *fakeGateway) UpdateWarehouseItem(ctx context.Context, id string, patch model.ItemPatch) (model.WarehouseItem, error) {
	if g.updateItem == nil {
		return model.WarehouseItem{}, errDown
	}
	return g.updateItem(ctx, id, patch)
}

func (g *fakeGateway) DummyWarehouse(ctx context.Context, userID string) ([]model.WarehouseItem, error) {
	if g.dummyItems == nil {
		return nil, errDown
	}
	return g.dummyItems(ctx, userID)
}

func (g *fakeGateway) MonthlyReport(ctx context.Context, month string) (model.MonthlyReport, error) {
	if g.report == nil {
		return model.MonthlyReport{}, errDown
	}
	return g.report(ctx, month)
}

func (g *fakeGateway) DummyReport(ctx context.Context, userID, month string) (model.MonthlyReport, error) {
	if g.dummyReport == nil {
		return model.MonthlyReport{}, errDown
	}
	return g.dummyReport(ctx, userID, month)
}

// memSnapshots records what the stores persist, so tests can assert on the
// write-through behavior.
type memSnapshots struct {
	transactions []model.Transaction
	items        []model.WarehouseItem
	report       *model.MonthlyReport
	ai           *repository.AISnapshot

	txInitialized     bool
	itemsInitialized  bool
	reportInitialized bool

	saveTxCalls int
}

var _ repository.Snapshots = (*memSnapshots)(nil)

func (m *memSnapshots) LoadTransactions() ([]model.Transaction, bool, error) {
	return m.transactions, m.txInitialized, nil
}

func (m *memSnapshots) SaveTransactions(records []model.Transaction, initialized bool) error {
	m.transactions = records
	m.txInitialized = initialized
	m.saveTxCalls++
	return nil
}

func (m *memSnapshots) LoadItems() ([]model.WarehouseItem, bool, error) {
	return m.items, m.itemsInitialized, nil
}

func (m *memSnapshots) SaveItems(records []model.WarehouseItem, initialized bool) error {
	m.items = records
	m.itemsInitialized = initialized
	return nil
}

func (m *memSnapshots) LoadReport() (*model.MonthlyReport, bool, error) {
	return m.report, m.reportInitialized, nil
}

func (m *memSnapshots) SaveReport(report *model.MonthlyReport, initialized bool) error {
	m.report = report
	m.reportInitialized = initialized
	return nil
}

func (m *memSnapshots) LoadAI() (*repository.AISnapshot, error) {
	return m.ai, nil
}

func (m *memSnapshots) SaveAI(snapshot repository.AISnapshot) error {
	m.ai = &snapshot
	return nil
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
