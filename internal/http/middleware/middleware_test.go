package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/financial-planner-server/internal/auth"
	rl "github.com/rogerio-castellano/financial-planner-server/internal/http/rate_limiter"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r)))
}

func decodeError(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp["error"]
}

func TestAuth(t *testing.T) {
	verifier := auth.NewVerifier("secret", "", "")
	valid, err := verifier.GenerateToken("user-1", time.Minute)
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}
	forged, _ := auth.NewVerifier("other", "", "").GenerateToken("user-1", time.Minute)

	h := Auth(verifier)(http.HandlerFunc(echoUser))

	tests := []struct {
		name       string
		header     string
		expectCode int
		expectBody string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized, ""},
		{"forged token", "Bearer " + forged, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cashflow", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d", tt.expectCode, w.Code)
			}
			if tt.expectCode == http.StatusOK {
				if w.Body.String() != tt.expectBody {
					t.Errorf("expected user %q, got %q", tt.expectBody, w.Body.String())
				}
				return
			}
			if msg := decodeError(t, w.Body); msg == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestGetUserIDOutsideAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetUserID(req); got != "" {
		t.Errorf("expected empty user id, got %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(rl.NewVisitors(0.001, 2))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Error("expected a Retry-After header")
		}
	}

	want := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d: expected %d, got %d", i, want[i], codes[i])
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("expected 203.0.113.9, got %q", got)
	}

	req.RemoteAddr = "203.0.113.9"
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("expected 203.0.113.9 without port, got %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf, Component: log.ComponentApp})

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if log.FromContext(r.Context()).Component() != log.ComponentHTTP {
			t.Error("expected the request logger in the context")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{`"level":"WARN"`, `"status_code":418`, `"path":"/api/holdings"`, `"component":"http"`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected log line to contain %s, got %s", want, line)
		}
	}
}
