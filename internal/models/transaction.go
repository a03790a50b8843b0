package models

import "github.com/shopspring/decimal"

// Transaction is a single posted or pending transaction as reported by the aggregator.
// A positive amount is money leaving the account, a negative amount is money entering it.
type Transaction struct {
	ID             string           `json:"transaction_id"`
	AccountID      string           `json:"account_id"`
	Name           string           `json:"name,omitempty"`
	Date           string           `json:"date,omitempty"`
	AuthorizedDate *string          `json:"authorized_date,omitempty"`
	Amount         *decimal.Decimal `json:"amount"`
	Currency       string           `json:"currency,omitempty"`
}

// TransactionPage is one page of a date-ranged transaction listing.
// Total is the number of transactions the aggregator reports for the whole range.
type TransactionPage struct {
	Transactions []Transaction
	Total        int
}
