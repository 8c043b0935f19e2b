package store

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/repository"
	"github.com/Aybis/maya-family/internal/safe"
)

// ReportGateway is the slice of the remote gateway this store needs.
type ReportGateway interface {
	MonthlyReport(ctx context.Context, month string) (model.MonthlyReport, error)
	DummyReport(ctx context.Context, userID, month string) (model.MonthlyReport, error)
}

// ReportStore owns the monthly report snapshot. Unlike the collection
// stores its tier-3 fallback is computed from fixed assumption constants,
// not a static dataset, and it is never derived from the transaction store.
type ReportStore struct {
	gw        ReportGateway
	snapshots repository.Snapshots
	log       zerolog.Logger
	userID    string

	now func() time.Time

	mu          sync.RWMutex
	report      *model.MonthlyReport
	loading     bool
	err         string
	initialized bool
}

// NewReportStore builds a store and rehydrates the last report snapshot.
func NewReportStore(gw ReportGateway, snapshots repository.Snapshots, userID string, log zerolog.Logger) *ReportStore {
	s := &ReportStore{
		gw:        gw,
		snapshots: snapshots,
		log:       log,
		userID:    userID,
		now:       time.Now,
	}
	report, initialized, err := snapshots.LoadReport()
	if err != nil {
		log.Warn().Err(err).Msg("report snapshot rehydration failed")
		return s
	}
	s.report = report
	s.initialized = initialized
	return s
}

// FetchMonthlyReport loads the report through the fallback chain. month is
// a YYYY-MM key; empty means the current month.
func (s *ReportStore) FetchMonthlyReport(ctx context.Context, month string) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	report, tier := fetchOneWithFallback(ctx, s.log,
		func(ctx context.Context) (model.MonthlyReport, error) {
			return s.gw.MonthlyReport(ctx, month)
		},
		func(ctx context.Context) (model.MonthlyReport, error) {
			return s.gw.DummyReport(ctx, s.userID, month)
		},
		func() model.MonthlyReport {
			return model.DefaultReport(month, s.now())
		},
	)

	s.mu.Lock()
	s.report = &report
	s.err = tier.Provenance()
	s.loading = false
	s.initialized = true
	s.persistLocked()
	s.mu.Unlock()
}

// Report returns the current report, or nil before the first fetch.
func (s *ReportStore) Report() *model.MonthlyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil
	}
	r := *s.report
	return &r
}

// Loading reports whether a fetch is in flight.
func (s *ReportStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the current error or provenance note.
func (s *ReportStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Initialized reports whether a fetch chain has completed at least once.
func (s *ReportStore) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// SavingsRate returns the report's savings rate clamped to [0, 100].
func (s *ReportStore) SavingsRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return 0
	}
	rate := s.report.SavingsRate
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

// TopExpenseCategories returns up to limit breakdown rows with expense
// activity, highest expense first. A non-positive limit means 5.
func (s *ReportStore) TopExpenseCategories(limit int) []model.CategoryBreakdown {
	if limit <= 0 {
		limit = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return []model.CategoryBreakdown{}
	}
	spending := safe.Filter(s.report.CategoryBreakdown, func(row model.CategoryBreakdown) bool {
		return row.Expense > 0
	})
	sorted := safe.Sort(spending, func(a, b model.CategoryBreakdown) bool {
		return a.Expense > b.Expense
	})
	return safe.Slice(sorted, 0, limit)
}

// IncomeVsExpenseRatio returns income divided by expenses. When expenses
// are zero the result is +Inf for positive income and 0 when both are zero;
// consumers must handle the infinite sentinel explicitly.
func (s *ReportStore) IncomeVsExpenseRatio() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return 0
	}
	income, expenses := s.report.TotalIncome, s.report.TotalExpenses
	if expenses == 0 {
		if income > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return income / expenses
}

func (s *ReportStore) persistLocked() {
	if err := s.snapshots.SaveReport(s.report, s.initialized); err != nil {
		s.log.Warn().Err(err).Msg("report snapshot write failed")
	}
}
