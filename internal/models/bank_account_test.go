package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxTypeForSubType(t *testing.T) {
	tests := map[string]TaxType{
		"401k":        TaxTypeTaxDeferred,
		"IRA":         TaxTypeTaxDeferred,
		" sep ira ":   TaxTypeTaxDeferred,
		"roth":        TaxTypeTaxFree,
		"Roth 401k":   TaxTypeTaxFree,
		"hsa":         TaxTypeTaxFree,
		"529":         TaxTypeTaxFree,
		"brokerage":   TaxTypeTaxable,
		"checking":    TaxTypeTaxable,
		"":            TaxTypeTaxable,
		"made up one": TaxTypeTaxable,
	}

	for subType, want := range tests {
		assert.Equal(t, want, TaxTypeForSubType(subType), subType)
	}
}

func TestParseAccountType(t *testing.T) {
	assert.Equal(t, AccountTypeDepository, ParseAccountType("depository"))
	assert.Equal(t, AccountTypeInvestment, ParseAccountType("Investment"))
	assert.Equal(t, AccountTypeCredit, ParseAccountType("credit"))
	assert.Equal(t, AccountTypeOther, ParseAccountType("mortgage"))
	assert.Equal(t, AccountTypeOther, ParseAccountType(""))
}
