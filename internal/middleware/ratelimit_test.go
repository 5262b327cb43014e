package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FieldTrace/FT-Backend/internal/middleware"
)

// hitLimiter sends n requests from the given remote address through the
// limiter and returns the status code of the last response.
func hitLimiter(t *testing.T, rl *middleware.RateLimiter, remoteAddr string, n int) int {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(inner)

	var last int
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}
	return last
}

// TestRateLimiter_AllowsWithinBudget verifies that requests inside the burst
// budget pass through untouched.
func TestRateLimiter_AllowsWithinBudget(t *testing.T) {
	rl := middleware.NewRateLimiter(10)

	if code := hitLimiter(t, rl, "10.0.0.1:4567", 10); code != http.StatusOK {
		t.Errorf("expected 200 within budget, got %d", code)
	}
}

// TestRateLimiter_RejectsOverBudget verifies that the request after the burst
// is rejected with 429 and a Retry-After header.
func TestRateLimiter_RejectsOverBudget(t *testing.T) {
	rl := middleware.NewRateLimiter(5)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(inner)

	var rec *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
		req.RemoteAddr = "10.0.0.2:4567"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over budget, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

// TestRateLimiter_BudgetsArePerIP verifies that exhausting one IP's budget
// does not affect another IP.
func TestRateLimiter_BudgetsArePerIP(t *testing.T) {
	rl := middleware.NewRateLimiter(3)

	if code := hitLimiter(t, rl, "10.0.0.3:1111", 4); code != http.StatusTooManyRequests {
		t.Fatalf("expected first IP to be limited, got %d", code)
	}
	if code := hitLimiter(t, rl, "10.0.0.4:2222", 1); code != http.StatusOK {
		t.Errorf("expected second IP to pass, got %d", code)
	}
}

// TestClientIP_PrefersForwardedFor verifies proxy header precedence:
// X-Forwarded-For first, then X-Real-IP, then RemoteAddr.
func TestClientIP_PrefersForwardedFor(t *testing.T) {
	cases := []struct {
		xff, xri, remote, want string
	}{
		{"203.0.113.7, 10.0.0.1", "198.51.100.2", "10.0.0.9:443", "203.0.113.7"},
		{"", "198.51.100.2", "10.0.0.9:443", "198.51.100.2"},
		{"", "", "10.0.0.9:443", "10.0.0.9"},
		{"", "", "badaddr", "badaddr"},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = c.remote
			if c.xff != "" {
				req.Header.Set("X-Forwarded-For", c.xff)
			}
			if c.xri != "" {
				req.Header.Set("X-Real-IP", c.xri)
			}
			if got := middleware.ClientIP(req); got != c.want {
				t.Errorf("expected %q, got %q", c.want, got)
			}
		})
	}
}
