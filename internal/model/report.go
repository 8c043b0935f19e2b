package model

import (
	"fmt"
	"math"
	"time"

	"github.com/Aybis/maya-family/internal/safe"
)

// MonthLayout is the month-key format used by the report endpoints.
const MonthLayout = "2006-01"

// Fixed assumptions used to compute a default report when every remote
// source is unavailable. These deliberately do not read the transaction
// store; the two containers are not cross-wired at this layer.
const (
	AssumedMonthlyIncome   = 5500000
	AssumedMonthlyExpenses = 450000
	AssumedMonthlyBudget   = 6000000
)

// CategoryBreakdown is one category row of a monthly report.
type CategoryBreakdown struct {
	Category   string  `json:"category"`
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Net        float64 `json:"net"`
	Percentage float64 `json:"percentage"`
}

// MonthlyReport is the precomputed report fetched from the backend.
type MonthlyReport struct {
	Month                    string              `json:"month"`
	Year                     int                 `json:"year"`
	TotalIncome              float64             `json:"totalIncome"`
	TotalExpenses            float64             `json:"totalExpenses"`
	NetBalance               float64             `json:"netBalance"`
	CategoryBreakdown        []CategoryBreakdown `json:"categoryBreakdown"`
	TransactionCount         int                 `json:"transactionCount"`
	SavingsRate              float64             `json:"savingsRate"`
	AverageTransactionAmount float64             `json:"averageTransactionAmount"`
	TopCategories            []string            `json:"topCategories"`
}

// ReportFromPayload normalizes a loose remote payload field by field.
// Missing or malformed fields are replaced with zero/empty defaults rather
// than rejecting the whole object.
func ReportFromPayload(payload map[string]any) MonthlyReport {
	r := MonthlyReport{
		Month:                    safe.String(safe.Get(payload, "month", nil), ""),
		Year:                     int(nonNegative(safe.Number(safe.Get(payload, "year", nil), 0))),
		TotalIncome:              nonNegative(safe.Number(safe.Get(payload, "totalIncome", nil), 0)),
		TotalExpenses:            nonNegative(safe.Number(safe.Get(payload, "totalExpenses", nil), 0)),
		NetBalance:               finite(safe.Number(safe.Get(payload, "netBalance", nil), 0)),
		TransactionCount:         int(nonNegative(safe.Number(safe.Get(payload, "transactionCount", nil), 0))),
		SavingsRate:              clampPercent(safe.Number(safe.Get(payload, "savingsRate", nil), 0)),
		AverageTransactionAmount: nonNegative(safe.Number(safe.Get(payload, "averageTransactionAmount", nil), 0)),
		CategoryBreakdown:        []CategoryBreakdown{},
		TopCategories:            []string{},
	}

	if rows, ok := safe.Get(payload, "categoryBreakdown", nil).([]any); ok {
		for _, raw := range rows {
			row, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			r.CategoryBreakdown = append(r.CategoryBreakdown, CategoryBreakdown{
				Category:   safe.String(safe.Get(row, "category", nil), ""),
				Income:     nonNegative(safe.Number(safe.Get(row, "income", nil), 0)),
				Expense:    nonNegative(safe.Number(safe.Get(row, "expense", nil), 0)),
				Net:        finite(safe.Number(safe.Get(row, "net", nil), 0)),
				Percentage: clampPercent(safe.Number(safe.Get(row, "percentage", nil), 0)),
			})
		}
	}
	if tops, ok := safe.Get(payload, "topCategories", nil).([]any); ok {
		for _, raw := range tops {
			if s, ok := raw.(string); ok && s != "" {
				r.TopCategories = append(r.TopCategories, s)
			}
		}
	}
	return r
}

// DefaultReport builds a report purely from the fixed assumption constants.
// Used only when both the API and the demo endpoint are unavailable.
func DefaultReport(month string, now time.Time) MonthlyReport {
	at, err := time.Parse(MonthLayout, month)
	if err != nil {
		at = now
	}

	breakdown := []CategoryBreakdown{
		{Category: "Salary", Income: 5000000, Expense: 0},
		{Category: "Freelance", Income: 500000, Expense: 0},
		{Category: "Food", Income: 0, Expense: 250000},
		{Category: "Bills", Income: 0, Expense: 150000},
		{Category: "Transportation", Income: 0, Expense: 50000},
	}
	for i := range breakdown {
		breakdown[i].Net = breakdown[i].Income - breakdown[i].Expense
		if breakdown[i].Expense > 0 {
			breakdown[i].Percentage = clampPercent(breakdown[i].Expense / AssumedMonthlyExpenses * 100)
		}
	}

	net := float64(AssumedMonthlyIncome - AssumedMonthlyExpenses)
	return MonthlyReport{
		Month:                    at.Format(MonthLayout),
		Year:                     at.Year(),
		TotalIncome:              AssumedMonthlyIncome,
		TotalExpenses:            AssumedMonthlyExpenses,
		NetBalance:               net,
		CategoryBreakdown:        breakdown,
		TransactionCount:         len(breakdown),
		SavingsRate:              clampPercent(net / AssumedMonthlyIncome * 100),
		AverageTransactionAmount: (AssumedMonthlyIncome + AssumedMonthlyExpenses) / float64(len(breakdown)),
		TopCategories:            []string{"Food", "Bills", "Transportation"},
	}
}

// MonthKey formats t as a report month key.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	return v
}

func clampPercent(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
