package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"sync"
)

type transaction struct {
	TransactionID  string   `json:"transaction_id"`
	AccountID      string   `json:"account_id"`
	Amount         *float64 `json:"amount"`
	Date           string   `json:"date"`
	AuthorizedDate *string  `json:"authorized_date"`
	Name           string   `json:"name"`
}

// fakeAggregator answers the Plaid endpoints the planner calls.
type fakeAggregator struct {
	mu           sync.Mutex
	transactions []transaction
	failStatus   int
	failType     string
	offsets      []int
	accessTokens []string
}

func newFakeAggregator() *fakeAggregator {
	return &fakeAggregator{}
}

func (f *fakeAggregator) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = nil
	f.failStatus = 0
	f.failType = ""
	f.offsets = nil
	f.accessTokens = nil
}

func (f *fakeAggregator) setTransactions(txs []transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = txs
}

// failWith makes every data endpoint answer with an error envelope. Token
// exchange keeps working so tests can still link an institution.
func (f *fakeAggregator) failWith(status int, errType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
	f.failType = errType
}

func (f *fakeAggregator) requestedOffsets() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.offsets...)
}

func (f *fakeAggregator) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accessTokens)
}

func (f *fakeAggregator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessToken string `json:"access_token"`
		PublicToken string `json:"public_token"`
		Options     struct {
			Count  int `json:"count"`
			Offset int `json:"offset"`
		} `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if body.AccessToken != "" {
		f.accessTokens = append(f.accessTokens, body.AccessToken)
	}

	if f.failStatus != 0 && r.URL.Path != "/item/public_token/exchange" {
		writeError(w, f.failStatus, f.failType, "SIMULATED")
		return
	}

	switch r.URL.Path {
	case "/link/token/create":
		writeBody(w, map[string]any{"link_token": "link-sandbox-test", "expiration": "2024-04-15T13:00:00Z"})
	case "/item/public_token/exchange":
		if body.PublicToken == "public-bad" {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "INVALID_PUBLIC_TOKEN")
			return
		}
		writeBody(w, map[string]any{"access_token": "access-sandbox-1", "item_id": "item-1"})
	case "/item/remove":
		writeBody(w, map[string]any{"request_id": "req-test"})
	case "/accounts/balance/get":
		writeBody(w, map[string]any{"accounts": []map[string]any{
			{
				"account_id": "checking",
				"name":       "Plaid Checking",
				"type":       "depository",
				"subtype":    "checking",
				"balances":   map[string]any{"available": 100, "current": 110, "iso_currency_code": "USD"},
			},
			{
				"account_id":    "ira",
				"name":          "",
				"official_name": "Plaid IRA",
				"type":          "investment",
				"subtype":       "ira",
				"balances":      map[string]any{"available": nil, "current": 320.76, "iso_currency_code": "USD"},
			},
		}})
	case "/investments/holdings/get":
		writeBody(w, map[string]any{
			"holdings": []map[string]any{
				{"account_id": "ira", "security_id": "sec-1", "quantity": 2, "institution_price": 10.5, "institution_value": 21, "cost_basis": 15, "iso_currency_code": "USD"},
				{"account_id": "ira", "security_id": "sec-2", "quantity": 1, "institution_price": 5, "institution_value": 5, "cost_basis": nil, "iso_currency_code": "USD"},
			},
			"securities": []map[string]any{
				{"security_id": "sec-1", "name": "Acme Corp", "ticker_symbol": "ACME"},
				{"security_id": "sec-2", "name": "Treasury Bill", "ticker_symbol": nil},
			},
		})
	case "/transactions/get":
		f.offsets = append(f.offsets, body.Options.Offset)
		start := min(body.Options.Offset, len(f.transactions))
		end := min(start+body.Options.Count, len(f.transactions))
		writeBody(w, map[string]any{
			"transactions":       f.transactions[start:end],
			"total_transactions": len(f.transactions),
		})
	default:
		writeError(w, http.StatusNotFound, "INVALID_REQUEST", "NOT_FOUND")
	}
}

func writeBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error_type":    errType,
		"error_code":    code,
		"error_message": "simulated failure",
		"request_id":    "req-test",
	})
}
