package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/repository"
	"github.com/Aybis/maya-family/internal/safe"
)

// Error strings surfaced by transaction actions.
const (
	MsgTransactionSavedLocally = "Transaction saved locally - API unavailable"
	MsgTransactionNotFound     = "Transaction not found"
)

// TransactionGateway is the slice of the remote gateway this store needs.
type TransactionGateway interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error)
	DummyTransactions(ctx context.Context, userID string) ([]model.Transaction, error)
}

// CategoryTotal accumulates income and expense per category.
type CategoryTotal struct {
	Income  float64
	Expense float64
	Net     float64
}

// TransactionStore owns the list of financial transactions.
type TransactionStore struct {
	gw        TransactionGateway
	snapshots repository.Snapshots
	log       zerolog.Logger
	userID    string

	now   func() time.Time
	newID func() string

	mu           sync.RWMutex
	transactions []model.Transaction
	loading      bool
	err          string
	initialized  bool
}

// NewTransactionStore builds a store and rehydrates it from the snapshot
// partition. Rehydrated records are trusted until the next explicit fetch.
func NewTransactionStore(gw TransactionGateway, snapshots repository.Snapshots, userID string, log zerolog.Logger) *TransactionStore {
	s := &TransactionStore{
		gw:        gw,
		snapshots: snapshots,
		log:       log,
		userID:    userID,
		now:       time.Now,
		newID:     func() string { return model.LocalIDPrefix + uuid.NewString() },
	}
	records, initialized, err := snapshots.LoadTransactions()
	if err != nil {
		log.Warn().Err(err).Msg("transaction snapshot rehydration failed")
		return s
	}
	s.transactions = records
	s.initialized = initialized
	return s
}

// FetchTransactions loads the collection through the three-tier fallback
// chain. It never fails: in the worst case the hardcoded defaults are
// committed with a provenance note in Error.
func (s *TransactionStore) FetchTransactions(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	outcome := fetchWithFallback(ctx, s.log,
		s.gw.ListTransactions,
		func(ctx context.Context) ([]model.Transaction, error) {
			return s.gw.DummyTransactions(ctx, s.userID)
		},
		model.DefaultTransactions,
	)

	s.mu.Lock()
	s.transactions = outcome.records
	s.err = outcome.tier.Provenance()
	s.loading = false
	s.initialized = true
	s.persistLocked()
	s.mu.Unlock()
}

// AddTransaction validates the draft, attempts the remote create, and on
// any failure synthesizes a local-origin record instead. The transaction
// always ends up in the list; only the error note differs. Returns nil only
// when the draft fails validation.
func (s *TransactionStore) AddTransaction(ctx context.Context, draft model.TransactionDraft) *model.Transaction {
	if err := draft.Validate(); err != nil {
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		return nil
	}
	if draft.Date == "" {
		draft.Date = s.now().Format(model.DateLayout)
	}

	record, err := s.gw.CreateTransaction(ctx, draft)
	note := ""
	if err != nil {
		s.log.Warn().Err(err).Msg("remote transaction create failed, saving locally")
		stamp := s.now().Format(time.RFC3339)
		record = model.Transaction{
			ID:            s.newID(),
			Type:          draft.Type,
			Amount:        draft.Amount,
			Category:      draft.Category,
			Description:   draft.Description,
			PaymentMethod: draft.PaymentMethod,
			Date:          draft.Date,
			CreatedAt:     stamp,
			UpdatedAt:     stamp,
		}
		note = MsgTransactionSavedLocally
	}

	s.mu.Lock()
	s.transactions = append([]model.Transaction{record}, s.transactions...)
	s.err = note
	s.persistLocked()
	s.mu.Unlock()
	return &record
}

// UpdateTransaction merge-patches the record and re-stamps UpdatedAt. The
// backend exposes no transaction update endpoint, so this is deliberately
// local-state-only. Returns false when the id is unknown.
func (s *TransactionStore) UpdateTransaction(id string, patch model.TransactionPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.transactions {
		if tx.ID != id {
			continue
		}
		updated := patch.Apply(tx)
		updated.UpdatedAt = s.now().Format(time.RFC3339)
		s.transactions[i] = updated
		s.err = ""
		s.persistLocked()
		return true
	}
	s.err = MsgTransactionNotFound
	return false
}

// DeleteTransaction removes the record from local state. Deliberately not
// synchronized remotely; the backend exposes no delete endpoint.
func (s *TransactionStore) DeleteTransaction(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.transactions {
		if tx.ID != id {
			continue
		}
		s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
		s.err = ""
		s.persistLocked()
		return true
	}
	s.err = MsgTransactionNotFound
	return false
}

// Transactions returns a copy of the current collection.
func (s *TransactionStore) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *TransactionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the current error or provenance note; empty means healthy
// live data.
func (s *TransactionStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Initialized reports whether a fetch chain has completed at least once.
func (s *TransactionStore) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// TotalIncome sums all income amounts.
func (s *TransactionStore) TotalIncome() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumByType(s.transactions, model.TypeIncome)
}

// TotalExpenses sums all expense amounts.
func (s *TransactionStore) TotalExpenses() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumByType(s.transactions, model.TypeExpense)
}

// NetBalance is income minus expense, accumulated in a single pass.
func (s *TransactionStore) NetBalance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Reduce(s.transactions, func(sum float64, tx model.Transaction) float64 {
		if tx.Type == model.TypeIncome {
			return sum + tx.Amount
		}
		return sum - tx.Amount
	}, 0)
}

// TransactionsByCategory filters by exact category.
func (s *TransactionStore) TransactionsByCategory(category string) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Filter(s.transactions, func(tx model.Transaction) bool {
		return tx.Category == category
	})
}

// TransactionsByType filters by income or expense.
func (s *TransactionStore) TransactionsByType(txType string) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Filter(s.transactions, func(tx model.Transaction) bool {
		return tx.Type == txType
	})
}

// TransactionsByDateRange filters by calendar date, bounds inclusive.
// Unparseable bounds yield no matches.
func (s *TransactionStore) TransactionsByDateRange(start, end string) []model.Transaction {
	from, err1 := time.Parse(model.DateLayout, start)
	to, err2 := time.Parse(model.DateLayout, end)
	if err1 != nil || err2 != nil {
		return []model.Transaction{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Filter(s.transactions, func(tx model.Transaction) bool {
		at, err := time.Parse(model.DateLayout, tx.Date)
		if err != nil {
			return false
		}
		return !at.Before(from) && !at.After(to)
	})
}

// RecentTransactions returns up to limit records, newest first. Records
// sharing a date keep their original relative order. A non-positive limit
// means 10.
func (s *TransactionStore) RecentTransactions(limit int) []model.Transaction {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	epoch := time.Unix(0, 0)
	sorted := safe.Sort(s.transactions, func(a, b model.Transaction) bool {
		return safe.Date(a.Date, epoch).After(safe.Date(b.Date, epoch))
	})
	return safe.Slice(sorted, 0, limit)
}

// AverageTransactionAmount averages all amounts regardless of type.
func (s *TransactionStore) AverageTransactionAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.transactions) == 0 {
		return 0
	}
	total := safe.Reduce(s.transactions, func(sum float64, tx model.Transaction) float64 {
		return sum + tx.Amount
	}, 0)
	return total / float64(len(s.transactions))
}

// CategoryTotals accumulates income, expense and net per category over all
// transactions.
func (s *TransactionStore) CategoryTotals() map[string]CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := make(map[string]CategoryTotal)
	for _, tx := range s.transactions {
		t := totals[tx.Category]
		if tx.Type == model.TypeIncome {
			t.Income += tx.Amount
		} else {
			t.Expense += tx.Amount
		}
		t.Net = t.Income - t.Expense
		totals[tx.Category] = t
	}
	return totals
}

// persistLocked writes the durable snapshot. Best effort: failures are
// logged, never surfaced as store errors. Callers hold the write lock.
func (s *TransactionStore) persistLocked() {
	if err := s.snapshots.SaveTransactions(s.transactions, s.initialized); err != nil {
		s.log.Warn().Err(err).Msg("transaction snapshot write failed")
	}
}

func sumByType(txs []model.Transaction, txType string) float64 {
	matching := safe.Filter(txs, func(tx model.Transaction) bool { return tx.Type == txType })
	return safe.Reduce(matching, func(sum float64, tx model.Transaction) float64 {
		return sum + tx.Amount
	}, 0)
}
