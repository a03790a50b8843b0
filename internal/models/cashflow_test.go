package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFinancialAccount(t *testing.T) {
	acc := NewFinancialAccount(NetCashOutflow, 2024)
	assert.Equal(t, []int{2024}, acc.Years())
	assert.True(t, acc.Total(2024).IsZero())

	acc.Add(decimal.RequireFromString("10.50"), 2024)
	acc.Add(decimal.RequireFromString("-4.25"), 2024)
	acc.Add(decimal.NewFromInt(7), 2023)

	assert.True(t, acc.Total(2024).Equal(decimal.RequireFromString("14.75")))
	assert.True(t, acc.Total(2023).Equal(decimal.NewFromInt(7)))
	assert.True(t, acc.Total(1999).IsZero())
	assert.Equal(t, []int{2023, 2024}, acc.Years())
	assert.True(t, acc.Sum().Equal(decimal.RequireFromString("21.75")))
}

func TestCashFlowSummaryAccountsOrder(t *testing.T) {
	s := CashFlowSummary{
		Inflow:  NewFinancialAccount(NetCashInflow, 2024),
		Outflow: NewFinancialAccount(NetCashOutflow, 2024),
	}
	accounts := s.Accounts()
	assert.Equal(t, NetCashInflow, accounts[0].Type)
	assert.Equal(t, NetCashOutflow, accounts[1].Type)
}
