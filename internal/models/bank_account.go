package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeDepository AccountType = "depository"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeBrokerage  AccountType = "brokerage"
	AccountTypeOther      AccountType = "other"
)

// ParseAccountType maps the aggregator's account type, falling back to AccountTypeOther.
func ParseAccountType(s string) AccountType {
	switch t := AccountType(strings.ToLower(s)); t {
	case AccountTypeDepository, AccountTypeCredit, AccountTypeLoan, AccountTypeInvestment, AccountTypeBrokerage:
		return t
	default:
		return AccountTypeOther
	}
}

type TaxType string

const (
	TaxTypeTaxable     TaxType = "TAXABLE"
	TaxTypeTaxDeferred TaxType = "TAX_DEFERRED"
	TaxTypeTaxFree     TaxType = "TAX_FREE"
)

var taxTypeBySubType = map[string]TaxType{
	"401a":                TaxTypeTaxDeferred,
	"401k":                TaxTypeTaxDeferred,
	"403b":                TaxTypeTaxDeferred,
	"457b":                TaxTypeTaxDeferred,
	"ira":                 TaxTypeTaxDeferred,
	"keogh":               TaxTypeTaxDeferred,
	"pension":             TaxTypeTaxDeferred,
	"profit sharing plan": TaxTypeTaxDeferred,
	"retirement":          TaxTypeTaxDeferred,
	"rrsp":                TaxTypeTaxDeferred,
	"sarsep":              TaxTypeTaxDeferred,
	"sep ira":             TaxTypeTaxDeferred,
	"simple ira":          TaxTypeTaxDeferred,
	"thrift savings plan": TaxTypeTaxDeferred,

	"529":                              TaxTypeTaxFree,
	"education savings account":        TaxTypeTaxFree,
	"health reimbursement arrangement": TaxTypeTaxFree,
	"hsa":                              TaxTypeTaxFree,
	"roth":                             TaxTypeTaxFree,
	"roth 401k":                        TaxTypeTaxFree,
	"tfsa":                             TaxTypeTaxFree,
}

// TaxTypeForSubType returns the tax treatment of an account subtype.
// Unknown subtypes are taxable.
func TaxTypeForSubType(subType string) TaxType {
	if t, ok := taxTypeBySubType[strings.ToLower(strings.TrimSpace(subType))]; ok {
		return t
	}
	return TaxTypeTaxable
}

type BankAccount struct {
	AccountID string          `json:"accountId"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	SubType   string          `json:"subType"`
	TaxType   TaxType         `json:"taxType"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}
