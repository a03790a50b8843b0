package handlers_integrated_test_suite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/rogerio-castellano/financial-planner-server/internal/http/handlers"
)

func TestMain(m *testing.M) {
	ok, err := setup()
	if err != nil {
		fmt.Println("❌ Could not set up database:", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("DATABASE_URL not set, skipping integration tests")
		os.Exit(0)
	}

	code := m.Run()
	database.Close()
	os.Exit(code)
}

func TestLinkThenCashFlow(t *testing.T) {
	t.Cleanup(clearCredentials)
	srv := fakePlaid()
	defer srv.Close()
	r, credentials := newRouter(srv.URL)

	w := doRequest(r, http.MethodGet, "/api/cashflow", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before linking, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/set_access_token", handlers.SetAccessTokenRequest{PublicToken: "public-sandbox-integration"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	sealed, err := storedAccessToken()
	if err != nil {
		t.Fatalf("expected a stored credential row: %v", err)
	}
	if sealed == "access-sandbox-integration" {
		t.Error("expected the access token to be sealed at rest")
	}

	cred, err := credentials.Get(context.Background(), testUser)
	if err != nil {
		t.Fatalf("unexpected error reading credential: %v", err)
	}
	if cred.AccessToken != "access-sandbox-integration" || cred.ItemID != "item-integration" {
		t.Errorf("unexpected credential %+v", cred)
	}

	w = doRequest(r, http.MethodGet, "/api/cashflow", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp handlers.CashFlowResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp.Accounts) != 2 || resp.Accounts[0].Total != 2500 {
		t.Errorf("expected inflow 2500, got %+v", resp.Accounts)
	}
}
