package model

import "strings"

// Categories is the closed category set the UI suggests and the AI layer is
// allowed to emit. The transaction data layer accepts free-form categories;
// only AI results are coerced into this set.
var Categories = []string{
	"Food",
	"Transportation",
	"Bills",
	"Entertainment",
	"Healthcare",
	"Education",
	"Shopping",
	"Investment",
	"Others",
}

// PaymentMethods lists the payment methods the UI suggests.
var PaymentMethods = []string{
	"Cash",
	"Bank Transfer",
	"Credit Card",
	"Debit Card",
	"QRIS",
	"E-Wallet",
	"Mobile Banking",
}

// IsKnownCategory reports whether name is in the closed category set.
func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryPrompt renders the closed category set for AI prompts.
func CategoryPrompt() string {
	return strings.Join(Categories, ", ")
}
