package models

import "github.com/shopspring/decimal"

// Holding is a position in one security held in an investment account.
// CostBasis is nil when the institution does not report it.
type Holding struct {
	AccountID        string
	SecurityID       string
	Name             string
	Ticker           string
	Quantity         decimal.Decimal
	InstitutionPrice decimal.Decimal
	InstitutionValue decimal.Decimal
	CostBasis        *decimal.Decimal
	Currency         string
}
