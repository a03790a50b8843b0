package plaid

import (
	"context"

	"github.com/rogerio-castellano/financial-planner-server/internal/models"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	TransactionID          string           `json:"transaction_id"`
	AccountID              string           `json:"account_id"`
	Amount                 *decimal.Decimal `json:"amount"`
	Date                   string           `json:"date"`
	AuthorizedDate         *string          `json:"authorized_date"`
	Name                   string           `json:"name"`
	Pending                bool             `json:"pending"`
	IsoCurrencyCode        *string          `json:"iso_currency_code"`
	UnofficialCurrencyCode *string          `json:"unofficial_currency_code"`
}

type transactionsGetRequest struct {
	auth
	AccessToken string `json:"access_token"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Options     struct {
		Count  int `json:"count"`
		Offset int `json:"offset"`
	} `json:"options"`
}

type transactionsGetResponse struct {
	Transactions      []Transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
	RequestID         string        `json:"request_id"`
}

// TransactionsPage fetches up to count transactions dated between startDate and
// endDate (inclusive, YYYY-MM-DD), skipping the first offset.
func (c *Client) TransactionsPage(ctx context.Context, accessToken, startDate, endDate string, count, offset int) (models.TransactionPage, error) {
	body := &transactionsGetRequest{
		AccessToken: accessToken,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	body.Options.Count = count
	body.Options.Offset = offset

	var resp transactionsGetResponse
	if err := c.post(ctx, "/transactions/get", body, &resp); err != nil {
		return models.TransactionPage{}, err
	}

	page := models.TransactionPage{
		Transactions: make([]models.Transaction, len(resp.Transactions)),
		Total:        resp.TotalTransactions,
	}
	for i, t := range resp.Transactions {
		page.Transactions[i] = models.Transaction{
			ID:             t.TransactionID,
			AccountID:      t.AccountID,
			Name:           t.Name,
			Date:           t.Date,
			AuthorizedDate: t.AuthorizedDate,
			Amount:         t.Amount,
			Currency:       CurrencyCode(t.IsoCurrencyCode, t.UnofficialCurrencyCode),
		}
	}
	return page, nil
}

// CurrencyCode prefers the ISO code and falls back to the unofficial one.
func CurrencyCode(iso, unofficial *string) string {
	if iso != nil && *iso != "" {
		return *iso
	}
	if unofficial != nil {
		return *unofficial
	}
	return ""
}
