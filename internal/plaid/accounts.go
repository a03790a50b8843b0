package plaid

import (
	"context"

	"github.com/shopspring/decimal"
)

type Balances struct {
	Available              *decimal.Decimal `json:"available"`
	Current                *decimal.Decimal `json:"current"`
	Limit                  *decimal.Decimal `json:"limit"`
	IsoCurrencyCode        *string          `json:"iso_currency_code"`
	UnofficialCurrencyCode *string          `json:"unofficial_currency_code"`
}

type Account struct {
	AccountID    string   `json:"account_id"`
	Balances     Balances `json:"balances"`
	Mask         *string  `json:"mask"`
	Name         string   `json:"name"`
	OfficialName *string  `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      *string  `json:"subtype"`
}

type accessTokenRequest struct {
	auth
	AccessToken string `json:"access_token"`
}

type accountsResponse struct {
	Accounts  []Account `json:"accounts"`
	RequestID string    `json:"request_id"`
}

// AccountsBalance fetches real-time balances for every account of the item.
func (c *Client) AccountsBalance(ctx context.Context, accessToken string) ([]Account, error) {
	var resp accountsResponse
	if err := c.post(ctx, "/accounts/balance/get", &accessTokenRequest{AccessToken: accessToken}, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}
