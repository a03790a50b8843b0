package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/financial-planner-server/internal/models"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type LinkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type SetAccessTokenRequest struct {
	PublicToken string `json:"public_token"`
}

type SetAccessTokenResponse struct {
	ItemID string `json:"item_id"`
}

type UnlinkResponse struct {
	ItemID string `json:"item_id"`
}

type BankAccountResponse struct {
	AccountID string  `json:"accountId"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	SubType   string  `json:"subType"`
	TaxType   string  `json:"taxType"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
}

type BankAccountsResult struct {
	Accounts []BankAccountResponse `json:"accounts"`
}

type HoldingResponse struct {
	AccountID        string   `json:"accountId"`
	SecurityID       string   `json:"securityId"`
	Name             string   `json:"name"`
	Ticker           string   `json:"ticker,omitempty"`
	Quantity         float64  `json:"quantity"`
	InstitutionPrice float64  `json:"institutionPrice"`
	InstitutionValue float64  `json:"institutionValue"`
	CostBasis        *float64 `json:"costBasis,omitempty"`
	Currency         string   `json:"currency"`
}

type HoldingsResult struct {
	Holdings []HoldingResponse `json:"holdings"`
}

// FinancialAccountResponse is one synthetic cash flow account. Total is the
// amount for Year; TotalsByYear also lists any other year a transaction fell in.
type FinancialAccountResponse struct {
	AccountType  string          `json:"accountType"`
	Year         int             `json:"year"`
	Total        float64         `json:"total"`
	TotalsByYear map[int]float64 `json:"totalsByYear"`
}

type CashFlowResult struct {
	StartDate string                     `json:"startDate"`
	EndDate   string                     `json:"endDate"`
	Accounts  []FinancialAccountResponse `json:"accounts"`
}

func toBankAccountResponse(a models.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		AccountID: a.AccountID,
		Name:      a.Name,
		Type:      string(a.Type),
		SubType:   a.SubType,
		TaxType:   string(a.TaxType),
		Balance:   a.Balance.InexactFloat64(),
		Currency:  a.Currency,
	}
}

func toHoldingResponse(h models.Holding) HoldingResponse {
	resp := HoldingResponse{
		AccountID:        h.AccountID,
		SecurityID:       h.SecurityID,
		Name:             h.Name,
		Ticker:           h.Ticker,
		Quantity:         h.Quantity.InexactFloat64(),
		InstitutionPrice: h.InstitutionPrice.InexactFloat64(),
		InstitutionValue: h.InstitutionValue.InexactFloat64(),
		Currency:         h.Currency,
	}
	if h.CostBasis != nil {
		resp.CostBasis = floatPtr(*h.CostBasis)
	}
	return resp
}

func toFinancialAccountResponse(a *models.FinancialAccount) FinancialAccountResponse {
	totals := make(map[int]float64)
	for _, y := range a.Years() {
		totals[y] = a.Total(y).InexactFloat64()
	}
	return FinancialAccountResponse{
		AccountType:  string(a.Type),
		Year:         a.Year,
		Total:        a.Total(a.Year).InexactFloat64(),
		TotalsByYear: totals,
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
