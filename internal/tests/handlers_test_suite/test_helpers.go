package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/financial-planner-server/internal/auth"
	"github.com/rogerio-castellano/financial-planner-server/internal/cashflow"
	"github.com/rogerio-castellano/financial-planner-server/internal/http/handlers"
	rl "github.com/rogerio-castellano/financial-planner-server/internal/http/rate_limiter"
	"github.com/rogerio-castellano/financial-planner-server/internal/http/router"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/plaid"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
	"github.com/rogerio-castellano/financial-planner-server/internal/service"
)

const (
	testUser   = "user-1"
	corsOrigin = "http://localhost:3000"
)

var (
	token          string
	verifier       = auth.NewVerifier("test-secret", "", "")
	credentialRepo = repo.NewInMemoryCredentialRepository()
	aggregator     = newFakeAggregator()
	plaidServer    = httptest.NewServer(aggregator)
)

func init() {
	var err error
	token, err = verifier.GenerateToken(testUser, time.Hour)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

// newRouter wires the real planner stack against the fake aggregator.
func newRouter(visitors *rl.Visitors) http.Handler {
	client, err := plaid.NewClient("client-id", "secret", plaid.Sandbox, plaid.WithBaseURL(plaidServer.URL))
	if err != nil {
		panic(err)
	}

	cfg := cashflow.DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryInitialInterval = time.Millisecond
	clock := cashflow.WithClock(func() time.Time { return time.Date(2024, time.April, 15, 9, 0, 0, 0, time.UTC) })
	agg := cashflow.New(client, credentialRepo, cfg, log.Discard(), clock)

	link := service.LinkConfig{ClientName: "My App", Products: []string{"transactions"}, CountryCodes: []string{"US"}, Language: "en"}
	planner := service.NewPlanner(client, credentialRepo, agg, nil, link, log.Discard())

	if visitors == nil {
		visitors = rl.NewVisitors(1000, 1000)
	}
	return router.NewRouter(router.Dependencies{
		Server:     handlers.NewServer(planner, log.Discard()),
		Verifier:   verifier,
		Visitors:   visitors,
		Logger:     log.Discard(),
		CORSOrigin: corsOrigin,
	})
}

func resetState() {
	credentialRepo.Clear()
	aggregator.reset()
}

func doRequest(r http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func linkInstitution(r http.Handler) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/api/set_access_token", handlers.SetAccessTokenRequest{PublicToken: "public-sandbox-1"}, token)
}

func decodeError(w *httptest.ResponseRecorder) string {
	var resp handlers.ErrorResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp.Error
}
