package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/rogerio-castellano/financial-planner-server/internal/auth"
	"github.com/rogerio-castellano/financial-planner-server/internal/cashflow"
	"github.com/rogerio-castellano/financial-planner-server/internal/db"
	"github.com/rogerio-castellano/financial-planner-server/internal/http/handlers"
	rl "github.com/rogerio-castellano/financial-planner-server/internal/http/rate_limiter"
	"github.com/rogerio-castellano/financial-planner-server/internal/http/router"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/plaid"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
	"github.com/rogerio-castellano/financial-planner-server/internal/service"
)

const (
	testUser      = "integration-user"
	credentialKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

var (
	database *sql.DB
	verifier = auth.NewVerifier("integration-secret", "", "")
	token    string
)

// setup connects to DATABASE_URL and applies the migrations. It returns false
// when no database is configured.
func setup() (bool, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return false, nil
	}

	var err error
	database, err = db.Connect(context.Background(), dbURL)
	if err != nil {
		return false, err
	}
	if err := db.MigratePostgres(database); err != nil {
		return false, err
	}

	token, err = verifier.GenerateToken(testUser, time.Hour)
	if err != nil {
		return false, fmt.Errorf("error generating token: %w", err)
	}
	return true, nil
}

// fakePlaid serves a linked item with a single March 2024 paycheck.
func fakePlaid() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/item/public_token/exchange":
			_, _ = w.Write([]byte(`{"access_token":"access-sandbox-integration","item_id":"item-integration"}`))
		case "/transactions/get":
			_, _ = w.Write([]byte(`{"total_transactions":1,"transactions":[{"transaction_id":"t1","amount":-2500,"date":"2024-03-29"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_type":"INVALID_REQUEST","error_code":"NOT_FOUND"}`))
		}
	}))
}

func newRouter(plaidURL string) (http.Handler, repo.CredentialRepository) {
	sealer, err := repo.NewSealer(credentialKey)
	if err != nil {
		panic(err)
	}
	credentials := repo.NewPostgresCredentialRepository(database, sealer)

	client, err := plaid.NewClient("client-id", "secret", plaid.Sandbox, plaid.WithBaseURL(plaidURL))
	if err != nil {
		panic(err)
	}

	clock := cashflow.WithClock(func() time.Time { return time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC) })
	agg := cashflow.New(client, credentials, cashflow.DefaultConfig(), log.Discard(), clock)
	planner := service.NewPlanner(client, credentials, agg, nil, service.LinkConfig{}, log.Discard())

	return router.NewRouter(router.Dependencies{
		Server:     handlers.NewServer(planner, log.Discard()),
		Verifier:   verifier,
		Visitors:   rl.NewVisitors(1000, 1000),
		Logger:     log.Discard(),
		CORSOrigin: "http://localhost:3000",
	}), credentials
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func clearCredentials() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "DELETE FROM credentials WHERE user_id = $1", testUser)
	if err != nil {
		fmt.Println(fmt.Errorf("failed to delete credentials: %w", err))
	}
}

func storedAccessToken() (string, error) {
	var sealed string
	err := database.QueryRow("SELECT access_token FROM credentials WHERE user_id = $1", testUser).Scan(&sealed)
	return sealed, err
}
