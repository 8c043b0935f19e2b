package store

import (
	"context"
	"math"
	"testing"

	"github.com/Aybis/maya-family/internal/logger"
	"github.com/Aybis/maya-family/internal/model"
)

func newReportStore(gw *fakeGateway, snaps *memSnapshots) *ReportStore {
	s := NewReportStore(gw, snaps, "user1", logger.Nop())
	s.now = fixedClock()
	return s
}

func TestFetchMonthlyReportTiers(t *testing.T) {
	remote := model.MonthlyReport{Month: "2024-03", TotalIncome: 100}
	demo := model.MonthlyReport{Month: "2024-03", TotalIncome: 200}

	tests := []struct {
		name       string
		gw         *fakeGateway
		wantErr    string
		wantIncome float64
	}{
		{
			"remote",
			&fakeGateway{report: func(context.Context, string) (model.MonthlyReport, error) { return remote, nil }},
			"", 100,
		},
		{
			"demo",
			&fakeGateway{dummyReport: func(context.Context, string, string) (model.MonthlyReport, error) { return demo, nil }},
			MsgDemoData, 200,
		},
		{
			"computed default",
			&fakeGateway{},
			MsgDefaultData, model.AssumedMonthlyIncome,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := &memSnapshots{}
			s := newReportStore(tt.gw, snaps)
			s.FetchMonthlyReport(context.Background(), "2024-03")

			report := s.Report()
			if report == nil {
				t.Fatal("report is nil after fetch")
			}
			if report.TotalIncome != tt.wantIncome {
				t.Errorf("income = %v, want %v", report.TotalIncome, tt.wantIncome)
			}
			if s.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", s.Error(), tt.wantErr)
			}
			if snaps.report == nil {
				t.Error("fetch should write through to the snapshot")
			}
		})
	}
}

func TestReportNilBeforeFetch(t *testing.T) {
	s := newReportStore(&fakeGateway{}, &memSnapshots{})
	if s.Report() != nil {
		t.Error("report should be nil before the first fetch")
	}
	if s.Initialized() {
		t.Error("store should not be initialized before fetch")
	}
	if s.SavingsRate() != 0 || s.IncomeVsExpenseRatio() != 0 {
		t.Error("derived values should be zero before fetch")
	}
}

func TestSavingsRateClamped(t *testing.T) {
	s := newReportStore(&fakeGateway{}, &memSnapshots{})

	s.report = &model.MonthlyReport{SavingsRate: -12}
	if got := s.SavingsRate(); got != 0 {
		t.Errorf("negative rate should clamp to 0, got %v", got)
	}
	s.report = &model.MonthlyReport{SavingsRate: 140}
	if got := s.SavingsRate(); got != 100 {
		t.Errorf("rate should clamp to 100, got %v", got)
	}
	s.report = &model.MonthlyReport{SavingsRate: 42.5}
	if got := s.SavingsRate(); got != 42.5 {
		t.Errorf("in-range rate should pass through, got %v", got)
	}
}

func TestTopExpenseCategories(t *testing.T) {
	s := newReportStore(&fakeGateway{}, &memSnapshots{})
	s.report = &model.MonthlyReport{
		CategoryBreakdown: []model.CategoryBreakdown{
			{Category: "Salary", Income: 5000000, Expense: 0},
			{Category: "Food", Expense: 250000},
			{Category: "Transportation", Expense: 50000},
			{Category: "Bills", Expense: 150000},
		},
	}

	got := s.TopExpenseCategories(2)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Category != "Food" || got[1].Category != "Bills" {
		t.Errorf("order = %s, %s", got[0].Category, got[1].Category)
	}

	all := s.TopExpenseCategories(0)
	if len(all) != 3 {
		t.Errorf("default limit should include every spending row, got %d", len(all))
	}
	for _, row := range all {
		if row.Expense == 0 {
			t.Errorf("income-only row %s should be excluded", row.Category)
		}
	}
}

func TestIncomeVsExpenseRatio(t *testing.T) {
	s := newReportStore(&fakeGateway{}, &memSnapshots{})

	tests := []struct {
		name             string
		income, expenses float64
		want             float64
	}{
		{"normal", 500, 250, 2},
		{"zero expenses positive income", 500, 0, math.Inf(1)},
		{"both zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.report = &model.MonthlyReport{TotalIncome: tt.income, TotalExpenses: tt.expenses}
			got := s.IncomeVsExpenseRatio()
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("ratio = %v, want +Inf", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ratio = %v, want %v", got, tt.want)
			}
		})
	}
}
