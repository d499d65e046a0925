package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_WithinLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Hour})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over limit should be rejected")
	}
	if rl.TotalHits() != 1 {
		t.Errorf("total hits = %d, want 1", rl.TotalHits())
	}
}

func TestAllow_PerClientIsolation(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Hour})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Error("first client should be allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client has its own budget")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("first client is over its budget")
	}
}

func TestHandler_OnlyThrottlesMutations(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Hour})
	defer rl.Stop()

	handler := rl.Handler(
		func(*http.Request) string { return "10.0.0.1" },
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	do := func(method string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
		return rec.Code
	}

	if code := do(http.MethodPost); code != http.StatusOK {
		t.Errorf("first POST = %d, want 200", code)
	}
	if code := do(http.MethodPost); code != http.StatusTooManyRequests {
		t.Errorf("second POST = %d, want 429", code)
	}
	// GETs are never counted or throttled.
	for i := 0; i < 5; i++ {
		if code := do(http.MethodGet); code != http.StatusOK {
			t.Fatalf("GET %d = %d, want 200", i, code)
		}
	}
}
