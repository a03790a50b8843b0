package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

type CashFlowType string

const (
	NetCashInflow  CashFlowType = "NetCashInflow"
	NetCashOutflow CashFlowType = "NetCashOutflow"
)

// FinancialAccount is a synthetic account summing the money that moved in
// one direction across every linked account, bucketed by year.
type FinancialAccount struct {
	Type   CashFlowType
	Year   int
	totals map[int]decimal.Decimal
}

// NewFinancialAccount creates an account with a zero total for year.
func NewFinancialAccount(t CashFlowType, year int) *FinancialAccount {
	return &FinancialAccount{
		Type:   t,
		Year:   year,
		totals: map[int]decimal.Decimal{year: decimal.Zero},
	}
}

// Add accumulates the magnitude of amount into the total for year.
func (a *FinancialAccount) Add(amount decimal.Decimal, year int) {
	a.totals[year] = a.totals[year].Add(amount.Abs())
}

// Total returns the accumulated amount for year, zero when nothing was added.
func (a *FinancialAccount) Total(year int) decimal.Decimal {
	return a.totals[year]
}

// Years returns the bucketed years in ascending order.
func (a *FinancialAccount) Years() []int {
	years := make([]int, 0, len(a.totals))
	for y := range a.totals {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Sum returns the total over every year.
func (a *FinancialAccount) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range a.totals {
		sum = sum.Add(v)
	}
	return sum
}

// CashFlowSummary is the result of aggregating one date range.
type CashFlowSummary struct {
	StartDate string
	EndDate   string
	Inflow    *FinancialAccount
	Outflow   *FinancialAccount
}

// Accounts returns the summary accounts in [inflow, outflow] order.
func (s CashFlowSummary) Accounts() []*FinancialAccount {
	return []*FinancialAccount{s.Inflow, s.Outflow}
}
