package plaid

import (
	"context"
	"errors"
)

type LinkTokenRequest struct {
	ClientUserID string
	ClientName   string
	Products     []string
	CountryCodes []string
	Language     string
}

type linkTokenCreateRequest struct {
	auth
	ClientName   string   `json:"client_name"`
	Language     string   `json:"language"`
	CountryCodes []string `json:"country_codes"`
	Products     []string `json:"products"`
	User         struct {
		ClientUserID string `json:"client_user_id"`
	} `json:"user"`
}

type linkTokenCreateResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

// CreateLinkToken returns a short-lived token the front end uses to open Link.
func (c *Client) CreateLinkToken(ctx context.Context, r LinkTokenRequest) (string, error) {
	if r.ClientUserID == "" {
		return "", errors.New("client user id is required")
	}

	body := &linkTokenCreateRequest{
		ClientName:   r.ClientName,
		Language:     r.Language,
		CountryCodes: r.CountryCodes,
		Products:     r.Products,
	}
	body.User.ClientUserID = r.ClientUserID

	var resp linkTokenCreateResponse
	if err := c.post(ctx, "/link/token/create", body, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

type publicTokenExchangeRequest struct {
	auth
	PublicToken string `json:"public_token"`
}

type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// ExchangePublicToken trades the public token returned by Link for a permanent access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (ExchangeResult, error) {
	var resp ExchangeResult
	if err := c.post(ctx, "/item/public_token/exchange", &publicTokenExchangeRequest{PublicToken: publicToken}, &resp); err != nil {
		return ExchangeResult{}, err
	}
	return resp, nil
}

type itemRemoveResponse struct {
	RequestID string `json:"request_id"`
}

// RemoveItem invalidates the access token and ends the institution link on the aggregator side.
func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	var resp itemRemoveResponse
	return c.post(ctx, "/item/remove", &accessTokenRequest{AccessToken: accessToken}, &resp)
}
