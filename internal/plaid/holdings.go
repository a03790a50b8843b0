package plaid

import (
	"context"

	"github.com/shopspring/decimal"
)

type Holding struct {
	AccountID              string           `json:"account_id"`
	SecurityID             string           `json:"security_id"`
	InstitutionPrice       decimal.Decimal  `json:"institution_price"`
	InstitutionValue       decimal.Decimal  `json:"institution_value"`
	CostBasis              *decimal.Decimal `json:"cost_basis"`
	Quantity               decimal.Decimal  `json:"quantity"`
	IsoCurrencyCode        *string          `json:"iso_currency_code"`
	UnofficialCurrencyCode *string          `json:"unofficial_currency_code"`
}

type Security struct {
	SecurityID   string  `json:"security_id"`
	Name         *string `json:"name"`
	TickerSymbol *string `json:"ticker_symbol"`
	Type         *string `json:"type"`
}

type HoldingsResponse struct {
	Accounts   []Account  `json:"accounts"`
	Holdings   []Holding  `json:"holdings"`
	Securities []Security `json:"securities"`
	RequestID  string     `json:"request_id"`
}

// InvestmentsHoldings fetches the holdings of every investment account of the item.
func (c *Client) InvestmentsHoldings(ctx context.Context, accessToken string) (HoldingsResponse, error) {
	var resp HoldingsResponse
	if err := c.post(ctx, "/investments/holdings/get", &accessTokenRequest{AccessToken: accessToken}, &resp); err != nil {
		return HoldingsResponse{}, err
	}
	return resp, nil
}
