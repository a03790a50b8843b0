// Package plaid is a small JSON client for the parts of the Plaid API the planner uses.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Environment string

const (
	Sandbox     Environment = "sandbox"
	Development Environment = "development"
	Production  Environment = "production"
)

var baseURLs = map[Environment]string{
	Sandbox:     "https://sandbox.plaid.com",
	Development: "https://development.plaid.com",
	Production:  "https://production.plaid.com",
}

const maxResponseBytes = 10 << 20

type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 30 second timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func NewClient(clientID, secret string, env Environment, opts ...Option) (*Client, error) {
	baseURL, ok := baseURLs[env]
	if !ok {
		return nil, fmt.Errorf("unknown plaid environment %q", env)
	}

	c := &Client{
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// auth is embedded in every request body.
type auth struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

func (a *auth) authenticate(clientID, secret string) {
	a.ClientID = clientID
	a.Secret = secret
}

type authenticated interface {
	authenticate(clientID, secret string)
}

// post sends body to path and decodes a 2xx response into out.
// Any other status is decoded into an *Error.
func (c *Client) post(ctx context.Context, path string, body authenticated, out any) error {
	body.authenticate(c.clientID, c.secret)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Plaid-Version", "2020-09-14")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Path: path, StatusCode: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil {
			apiErr.Message = string(raw)
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}
	return nil
}
