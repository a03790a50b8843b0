package plaid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse marks a 2xx response whose body could not be decoded.
// It is never temporary.
var ErrMalformedResponse = errors.New("malformed response body")

// Error is returned for every failed call: an error envelope from the API,
// or a transport failure when Err is set.
type Error struct {
	Path           string `json:"-"`
	StatusCode     int    `json:"-"`
	Type           string `json:"error_type"`
	Code           string `json:"error_code"`
	Message        string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
	Err            error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plaid %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("plaid %s: %d %s/%s: %s", e.Path, e.StatusCode, e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the same request may succeed.
func (e *Error) Temporary() bool {
	if e.Err != nil {
		return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, ErrMalformedResponse)
	}
	switch e.Type {
	case "RATE_LIMIT_EXCEEDED", "API_ERROR", "INSTITUTION_ERROR":
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
