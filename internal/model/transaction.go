package model

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used everywhere in the data model.
const DateLayout = "2006-01-02"

// Transaction type values. Sign is carried by the type, never by a negative
// amount.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// LocalIDPrefix marks records created client-side when a remote write
// failed. Such records are never reconciled back to the server.
const LocalIDPrefix = "local-"

// Transaction is one financial record.
type Transaction struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

// TransactionDraft is the caller-supplied input for a new transaction.
type TransactionDraft struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"`
}

// TransactionPatch is an id-keyed partial update. Nil fields are left
// untouched.
type TransactionPatch struct {
	Type          *string  `json:"type,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Description   *string  `json:"description,omitempty"`
	PaymentMethod *string  `json:"paymentMethod,omitempty"`
	Date          *string  `json:"date,omitempty"`
}

// Validate checks the invariants a transaction must satisfy to be stored.
// Records failing any check are dropped from fetch results.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("missing id")
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return errors.New("type must be income or expense")
	}
	if t.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if strings.TrimSpace(t.Category) == "" {
		return errors.New("missing category")
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("missing description")
	}
	if strings.TrimSpace(t.PaymentMethod) == "" {
		return errors.New("missing payment method")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	return nil
}

// Validate checks a draft before any network call is attempted. Errors are
// field-specific and user-facing.
func (d TransactionDraft) Validate() error {
	if d.Amount <= 0 {
		return errors.New("Amount must be greater than zero")
	}
	if strings.TrimSpace(d.Description) == "" {
		return errors.New("Description is required")
	}
	if strings.TrimSpace(d.Category) == "" {
		return errors.New("Category is required")
	}
	if strings.TrimSpace(d.PaymentMethod) == "" {
		return errors.New("Payment method is required")
	}
	if d.Type != TypeIncome && d.Type != TypeExpense {
		return errors.New("Type must be income or expense")
	}
	return nil
}

// Apply merges the patch into t. The caller re-stamps UpdatedAt.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.PaymentMethod != nil {
		t.PaymentMethod = *p.PaymentMethod
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

// IsLocal reports whether the record was created client-side as a fallback
// for a failed remote write.
func (t Transaction) IsLocal() bool {
	return strings.HasPrefix(t.ID, LocalIDPrefix)
}

// DefaultTransactions is the tier-3 fallback dataset, shown when both the
// API and the demo endpoint are unavailable.
func DefaultTransactions() []Transaction {
	return []Transaction{
		{ID: "1", Type: TypeIncome, Amount: 5000000, Category: "Salary", Description: "Monthly salary", PaymentMethod: "Bank Transfer", Date: "2024-01-15"},
		{ID: "2", Type: TypeExpense, Amount: 250000, Category: "Food", Description: "Groceries at Supermarket", PaymentMethod: "QRIS", Date: "2024-01-14"},
		{ID: "3", Type: TypeExpense, Amount: 50000, Category: "Transportation", Description: "Ojek Online", PaymentMethod: "E-Wallet", Date: "2024-01-14"},
		{ID: "4", Type: TypeExpense, Amount: 150000, Category: "Bills", Description: "Electricity Bill", PaymentMethod: "Bank Transfer", Date: "2024-01-13"},
		{ID: "5", Type: TypeIncome, Amount: 500000, Category: "Freelance", Description: "Web design project", PaymentMethod: "Bank Transfer", Date: "2024-01-12"},
	}
}
