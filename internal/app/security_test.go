package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestIPRateLimiterAllow(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	if !l.Allow("k") {
		t.Fatalf("first request should pass")
	}
	if l.Allow("k") {
		t.Fatalf("second request should exceed the burst")
	}
	if !l.Allow("other") {
		t.Fatalf("a different client should have its own bucket")
	}
}

func TestRequireReviewer(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		hash     string
		key      string
		wantCode int
	}{
		{name: "valid key", hash: string(hash), key: "secret-key", wantCode: http.StatusOK},
		{name: "wrong key", hash: string(hash), key: "not-it", wantCode: http.StatusUnauthorized},
		{name: "missing key", hash: string(hash), key: "", wantCode: http.StatusUnauthorized},
		{name: "not configured", hash: "", key: "secret-key", wantCode: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireReviewer(tc.hash)(next)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/results/r1/review", nil)
			if tc.key != "" {
				req.Header.Set(reviewerKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
			}
		})
	}
}
